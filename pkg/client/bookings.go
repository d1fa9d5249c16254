package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"gearpool/pkg/model"
)

type BookingsClient struct {
	httpClient *HttpClient
}

func NewBookingsClient(baseURL string) *BookingsClient {
	return &BookingsClient{
		httpClient: NewHttpClient(baseURL),
	}
}

// CommitBatch submits booking specs for conflict-checked commit. The optional
// idempotency key lets retried submissions replay the original outcome.
func (c *BookingsClient) CommitBatch(ctx context.Context, specs []*model.BookingSpec, idempotencyKey string) (*Response, error) {
	body := map[string]any{"specs": specs}
	if idempotencyKey == "" {
		return c.httpClient.POST(ctx, "/api/v1/bookings/batch", body)
	}
	return c.httpClient.POSTWithHeaders(ctx, "/api/v1/bookings/batch", body, map[string]string{
		"Idempotency-Key": idempotencyKey,
	})
}

func (c *BookingsClient) CheckAvailability(ctx context.Context, req *model.AvailabilityRequest) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/availability/check", req)
}

func (c *BookingsClient) CheckBatchAvailability(ctx context.Context, reqs []*model.AvailabilityRequest) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/availability/check-batch", map[string]any{"requests": reqs})
}

func (c *BookingsClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/bookings/id/"+url.PathEscape(id))
}

func (c *BookingsClient) GetAll(ctx context.Context, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/bookings?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(ctx, path)
}

func (c *BookingsClient) Search(ctx context.Context, equipmentID, projectID, from, to string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	if equipmentID != "" {
		q.Set("equipment_id", equipmentID)
	}
	if projectID != "" {
		q.Set("project_id", projectID)
	}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	return c.httpClient.GET(ctx, "/api/v1/bookings/search?"+q.Encode())
}

func (c *BookingsClient) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id) + "/status"
	return c.httpClient.PATCH(ctx, path, map[string]string{"status": string(status)})
}

func (c *BookingsClient) Delete(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/v1/bookings/id/"+url.PathEscape(id))
}

func (c *BookingsClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json:\n%+v\n%s", resp.ToString(), err)
	}
	return &booking, nil
}

func (c *BookingsClient) DecodeBookings(resp *Response) ([]*model.Booking, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var bookings []*model.Booking
	if err := json.Unmarshal(wrapper.Data, &bookings); err != nil {
		return nil, nil, fmt.Errorf("could not decode booking list:\n%+v\n%s", resp.ToString(), err)
	}

	return bookings, &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}, nil
}

func (c *BookingsClient) DecodeBatchResult(resp *Response) (*model.BatchResult, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode batch result wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var result model.BatchResult
	if err := json.Unmarshal(wrapper.Data, &result); err != nil {
		return nil, fmt.Errorf("could not decode batch result json:\n%+v\n%s", resp.ToString(), err)
	}
	return &result, nil
}

func (c *BookingsClient) DecodeBatchAvailability(resp *Response) ([]*model.AvailabilityResult, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode availability wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var results []*model.AvailabilityResult
	if err := json.Unmarshal(wrapper.Data, &results); err != nil {
		return nil, fmt.Errorf("could not decode availability list:\n%+v\n%s", resp.ToString(), err)
	}
	return results, nil
}

func (c *BookingsClient) DecodeAvailability(resp *Response) (*model.AvailabilityResult, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode availability wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var result model.AvailabilityResult
	if err := json.Unmarshal(wrapper.Data, &result); err != nil {
		return nil, fmt.Errorf("could not decode availability json:\n%+v\n%s", resp.ToString(), err)
	}
	return &result, nil
}
