package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"gearpool/pkg/model"
)

type EquipmentClient struct {
	httpClient *HttpClient
}

func NewEquipmentClient(baseURL string) *EquipmentClient {
	return &EquipmentClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *EquipmentClient) Create(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/equipment", body)
}

func (c *EquipmentClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/equipment/id/"+url.PathEscape(id))
}

func (c *EquipmentClient) GetAll(ctx context.Context, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/equipment?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(ctx, path)
}

func (c *EquipmentClient) Search(ctx context.Context, category string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	return c.httpClient.GET(ctx, "/api/v1/equipment/search?"+q.Encode())
}

func (c *EquipmentClient) Update(ctx context.Context, id string, body any) (*Response, error) {
	return c.httpClient.PATCH(ctx, "/api/v1/equipment/id/"+url.PathEscape(id), body)
}

func (c *EquipmentClient) Delete(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/v1/equipment/id/"+url.PathEscape(id))
}

func (c *EquipmentClient) DecodeEquipment(resp *Response) (*model.Equipment, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode equipment wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var equipment model.Equipment
	if err := json.Unmarshal(wrapper.Data, &equipment); err != nil {
		return nil, fmt.Errorf("could not decode equipment json:\n%+v\n%s", resp.ToString(), err)
	}
	return &equipment, nil
}

func (c *EquipmentClient) DecodeEquipmentList(resp *Response) ([]*model.Equipment, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var items []*model.Equipment
	if err := json.Unmarshal(wrapper.Data, &items); err != nil {
		return nil, nil, fmt.Errorf("could not decode equipment list:\n%+v\n%s", resp.ToString(), err)
	}

	return items, &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}, nil
}
