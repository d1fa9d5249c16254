package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"gearpool/pkg/model"
)

type ClientsClient struct {
	httpClient *HttpClient
}

func NewClientsClient(baseURL string) *ClientsClient {
	return &ClientsClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *ClientsClient) Create(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/clients", body)
}

func (c *ClientsClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/clients/id/"+url.PathEscape(id))
}

func (c *ClientsClient) GetByPhone(ctx context.Context, phone string) (*Response, error) {
	q := url.Values{}
	q.Set("phone", phone)
	return c.httpClient.GET(ctx, "/api/v1/clients/search?"+q.Encode())
}

func (c *ClientsClient) GetAll(ctx context.Context, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/clients?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(ctx, path)
}

func (c *ClientsClient) Update(ctx context.Context, id string, body any) (*Response, error) {
	return c.httpClient.PATCH(ctx, "/api/v1/clients/id/"+url.PathEscape(id), body)
}

func (c *ClientsClient) Delete(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/v1/clients/id/"+url.PathEscape(id))
}

func (c *ClientsClient) DecodeClient(resp *Response) (*model.Client, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode client wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var cl model.Client
	if err := json.Unmarshal(wrapper.Data, &cl); err != nil {
		return nil, fmt.Errorf("could not decode client json:\n%+v\n%s", resp.ToString(), err)
	}
	return &cl, nil
}

func (c *ClientsClient) DecodeClients(resp *Response) ([]*model.Client, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var cls []*model.Client
	if err := json.Unmarshal(wrapper.Data, &cls); err != nil {
		return nil, nil, fmt.Errorf("could not decode client list:\n%+v\n%s", resp.ToString(), err)
	}

	return cls, &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}, nil
}
