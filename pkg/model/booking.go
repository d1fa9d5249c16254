package model

import (
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// CountsTowardCapacity reports whether a booking in this status occupies
// equipment capacity. Completed gear is back on the shelf and cancelled
// bookings never went out, so neither counts.
func (s BookingStatus) CountsTowardCapacity() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusActive:
		return true
	}
	return false
}

// Mergeable reports whether an existing booking may absorb a duplicate
// request for the same equipment and date range. Once gear is checked out
// (active) a quantity change is a different lifecycle operation.
func (s BookingStatus) Mergeable() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransitionTo encodes the allowed lifecycle moves.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusActive || next == StatusCancelled
	case StatusActive:
		return next == StatusCompleted
	}
	return false
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Booking is a committed reservation of a quantity of one equipment item
// over a half-open [StartTime, EndTime) range.
type Booking struct {
	ID          string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Reference   string            `json:"reference" bson:"reference" validate:"omitempty"`
	EquipmentID string            `json:"equipment_id" bson:"equipment_id" validate:"required,mongodb"`
	ClientID    string            `json:"client_id" bson:"client_id" validate:"required,mongodb"`
	ProjectID   string            `json:"project_id,omitempty" bson:"project_id,omitempty" validate:"omitempty,mongodb"`
	StartTime   time.Time         `json:"start_time" bson:"start_time" validate:"required"`
	EndTime     time.Time         `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Quantity    int               `json:"quantity" bson:"quantity" validate:"required,min=1"`
	Status      BookingStatus     `json:"status" bson:"status" validate:"required,oneof=pending confirmed active completed cancelled"`
	Notes       string            `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`
	Metadata    map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty" validate:"omitempty,metadata_map"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time         `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Overlaps reports whether the booking's range intersects [start, end).
// Half-open semantics: a booking ending exactly when another starts does
// not conflict.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && start.Before(b.EndTime)
}

// BookingSpec is the command object for one requested reservation. Specs are
// submitted through the batch commit path; the engine is the single source of
// truth for acceptance and any client-side pre-flight check is advisory only.
type BookingSpec struct {
	EquipmentID string            `json:"equipment_id" validate:"required,mongodb"`
	ClientID    string            `json:"client_id" validate:"required,mongodb"`
	ProjectID   string            `json:"project_id,omitempty" validate:"omitempty,mongodb"`
	StartTime   time.Time         `json:"start_time" validate:"required"`
	EndTime     time.Time         `json:"end_time" validate:"required"`
	Quantity    int               `json:"quantity" validate:"required,min=1"`
	Notes       string            `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Metadata    map[string]string `json:"metadata,omitempty" validate:"omitempty,metadata_map"`
}
