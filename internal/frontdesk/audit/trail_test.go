package audit

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearpool/pkg/kafka"
	"gearpool/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   logger.LevelError,
		Format:  logger.FormatText,
		Output:  io.Discard,
		Service: "frontdesk-test",
	})
}

func entry(id string) Entry {
	return Entry{EventID: id, EventType: "booking.created", Payload: json.RawMessage(`{}`)}
}

func TestTrailRecentNewestFirst(t *testing.T) {
	trail := NewTrail(10)
	trail.Record(entry("a"))
	trail.Record(entry("b"))
	trail.Record(entry("c"))

	recent := trail.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].EventID)
	assert.Equal(t, "b", recent[1].EventID)

	// A limit past the end returns everything.
	assert.Len(t, trail.Recent(100), 3)
	assert.Equal(t, 3, trail.Len())
}

func TestTrailEvictsOldest(t *testing.T) {
	trail := NewTrail(2)
	trail.Record(entry("a"))
	trail.Record(entry("b"))
	trail.Record(entry("c"))

	assert.Equal(t, 2, trail.Len())
	recent := trail.Recent(0)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].EventID)
	assert.Equal(t, "b", recent[1].EventID)
}

func TestIntakeRecordsEvent(t *testing.T) {
	trail := NewTrail(10)
	handler := Intake(trail, testLogger())

	msg := kafka.NewMessage().
		WithKey("eq-1").
		WithValue(map[string]any{"id": "b1"}).
		WithEventType("booking.created").
		WithCorrelationID("req-42").
		Build()

	require.NoError(t, handler(context.Background(), msg))

	require.Equal(t, 1, trail.Len())
	got := trail.Recent(1)[0]
	assert.Equal(t, "booking.created", got.EventType)
	assert.Equal(t, "req-42", got.CorrelationID)
	assert.Equal(t, "eq-1", got.Key)
	assert.NotEmpty(t, got.EventID)
	assert.JSONEq(t, `{"id":"b1"}`, string(got.Payload))
	assert.False(t, got.ReceivedAt.IsZero())
}

func TestIntakeRejectsMalformedPayloadPermanently(t *testing.T) {
	trail := NewTrail(10)
	handler := Intake(trail, testLogger())

	err := handler(context.Background(), kafka.Message{
		Key:     "eq-1",
		Value:   []byte("not json"),
		Headers: map[string]string{},
	})
	require.Error(t, err)
	assert.False(t, kafka.ShouldRetry(err, 0, 3))
	assert.Equal(t, 0, trail.Len())
}
