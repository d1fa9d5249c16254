package audit

import (
	"context"
	"encoding/json"
	"time"

	"gearpool/pkg/kafka"
	"gearpool/pkg/logger"
)

// Intake returns the consumer handler that feeds the trail from the
// bookings event topic. Every event type on the topic is recorded; a
// message that is not valid JSON is permanent and goes to the DLQ.
func Intake(trail *Trail, log *logger.Logger) kafka.MessageHandler {
	return func(_ context.Context, msg kafka.Message) error {
		if !json.Valid(msg.Value) {
			return kafka.Permanent(kafka.ErrInvalidMessage)
		}

		entry := Entry{
			EventID:       msg.GetEventID(),
			EventType:     msg.GetEventType(),
			CorrelationID: msg.GetCorrelationID(),
			Key:           msg.Key,
			Payload:       json.RawMessage(msg.Value),
			ReceivedAt:    time.Now(),
		}
		trail.Record(entry)

		log.Debug("Booking event recorded",
			"event_id", entry.EventID,
			"event_type", entry.EventType,
			"key", entry.Key,
		)
		return nil
	}
}
