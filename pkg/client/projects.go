package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"gearpool/pkg/model"
)

type ProjectsClient struct {
	httpClient *HttpClient
}

func NewProjectsClient(baseURL string) *ProjectsClient {
	return &ProjectsClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *ProjectsClient) Create(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/projects", body)
}

func (c *ProjectsClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/projects/id/"+url.PathEscape(id))
}

func (c *ProjectsClient) GetByClient(ctx context.Context, clientID string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	return c.httpClient.GET(ctx, "/api/v1/projects/search?"+q.Encode())
}

func (c *ProjectsClient) GetAll(ctx context.Context, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/projects?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(ctx, path)
}

func (c *ProjectsClient) Update(ctx context.Context, id string, body any) (*Response, error) {
	return c.httpClient.PATCH(ctx, "/api/v1/projects/id/"+url.PathEscape(id), body)
}

func (c *ProjectsClient) Delete(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/v1/projects/id/"+url.PathEscape(id))
}

func (c *ProjectsClient) DecodeProject(resp *Response) (*model.Project, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode project wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var p model.Project
	if err := json.Unmarshal(wrapper.Data, &p); err != nil {
		return nil, fmt.Errorf("could not decode project json:\n%+v\n%s", resp.ToString(), err)
	}
	return &p, nil
}

func (c *ProjectsClient) DecodeProjects(resp *Response) ([]*model.Project, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var ps []*model.Project
	if err := json.Unmarshal(wrapper.Data, &ps); err != nil {
		return nil, nil, fmt.Errorf("could not decode project list:\n%+v\n%s", resp.ToString(), err)
	}

	return ps, &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}, nil
}
