package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearpool/internal/frontdesk/audit"
	"gearpool/pkg/logger"
)

func auditTestLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   logger.LevelError,
		Format:  logger.FormatText,
		Output:  io.Discard,
		Service: "frontdesk-test",
	})
}

func TestRecentActivityReturnsNewestFirst(t *testing.T) {
	trail := audit.NewTrail(10)
	trail.Record(audit.Entry{EventID: "e1", EventType: "booking.created", Payload: json.RawMessage(`{}`)})
	trail.Record(audit.Entry{EventID: "e2", EventType: "booking.merged", Payload: json.RawMessage(`{}`)})
	h := NewAuditHandler(trail, auditTestLogger())

	rec := httptest.NewRecorder()
	h.RecentActivity(rec, httptest.NewRequest(http.MethodGet, "/api/v1/frontdesk/audit?limit=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RecentActivityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "e2", resp.Events[0].EventID)
}

func TestRecentActivityWithoutIntake(t *testing.T) {
	h := NewAuditHandler(nil, auditTestLogger())

	rec := httptest.NewRecorder()
	h.RecentActivity(rec, httptest.NewRequest(http.MethodGet, "/api/v1/frontdesk/audit", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecentActivityRejectsBadLimit(t *testing.T) {
	h := NewAuditHandler(audit.NewTrail(10), auditTestLogger())

	rec := httptest.NewRecorder()
	h.RecentActivity(rec, httptest.NewRequest(http.MethodGet, "/api/v1/frontdesk/audit?limit=zero", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
