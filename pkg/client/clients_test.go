package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByPhoneSendsOnlyPhoneParam(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"000000000000000000000001","name":"Ada","phone":"+14155550100"}}`))
	}))
	defer server.Close()

	c := NewClientsClient(server.URL)
	resp, err := c.GetByPhone(context.Background(), "+14155550100")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/clients/search", gotPath)
	// The lookup is by unique phone; there is nothing to paginate.
	assert.Equal(t, url.Values{"phone": {"+14155550100"}}, gotQuery)

	cl, err := c.DecodeClient(resp)
	require.NoError(t, err)
	assert.Equal(t, "+14155550100", cl.Phone)
}
