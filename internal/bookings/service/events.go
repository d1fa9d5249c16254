package service

import (
	"context"

	"gearpool/pkg/kafka"
	"gearpool/pkg/logger"
	"gearpool/pkg/middleware"
	"gearpool/pkg/model"
)

// Event types emitted on the bookings topic.
const (
	EventBookingCreated = "booking.created"
	EventBookingMerged  = "booking.merged"
	EventBatchCompleted = "booking.batch_completed"
)

// EventPublisher emits booking lifecycle events. Publishing is best
// effort: a broker outage never fails a committed booking.
type EventPublisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingMerged(ctx context.Context, booking *model.Booking, addedQuantity int)
	BatchCompleted(ctx context.Context, result *model.BatchResult)
}

type NoopPublisher struct{}

func (NoopPublisher) BookingCreated(context.Context, *model.Booking)     {}
func (NoopPublisher) BookingMerged(context.Context, *model.Booking, int) {}
func (NoopPublisher) BatchCompleted(context.Context, *model.BatchResult) {}

// kafkaPublisher keys booking events by equipment id so events for one
// item land on one partition, in order.
type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) EventPublisher {
	return &kafkaPublisher{producer: producer, log: log}
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCreated, booking.EquipmentID, booking)
}

func (p *kafkaPublisher) BookingMerged(ctx context.Context, booking *model.Booking, addedQuantity int) {
	p.publish(ctx, EventBookingMerged, booking.EquipmentID, struct {
		Booking       *model.Booking `json:"booking"`
		AddedQuantity int            `json:"added_quantity"`
	}{booking, addedQuantity})
}

func (p *kafkaPublisher) BatchCompleted(ctx context.Context, result *model.BatchResult) {
	key := "batch"
	if len(result.Bookings) > 0 {
		key = result.Bookings[0].EquipmentID
	}
	p.publish(ctx, EventBatchCompleted, key, result)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType, key string, payload any) {
	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithCorrelationID(middleware.RequestID(ctx)).
		WithSource("bookings").
		WithSchemaVersion("1").
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}
