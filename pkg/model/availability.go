package model

import "time"

// ConflictEntry names one committed booking that stands in the way of a
// request, with the quantity arithmetic at the worst overlapping moment.
type ConflictEntry struct {
	BookingID         string    `json:"booking_id"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	AvailableQuantity int       `json:"available_quantity"`
	RequiredQuantity  int       `json:"required_quantity"`
	Reason            string    `json:"reason"`
}

// AvailabilityResult answers "can this quantity be reserved over this range".
// Unavailability is an expected outcome, not an error: conflicts carry the
// diagnostic detail, and AvailableQuantity is what the range could still take.
type AvailabilityResult struct {
	Available         bool            `json:"available"`
	AvailableQuantity int             `json:"available_quantity"`
	Conflicts         []ConflictEntry `json:"conflicts,omitempty"`
}

// AvailabilityRequest is one advisory pre-flight check.
type AvailabilityRequest struct {
	EquipmentID string    `json:"equipment_id" validate:"required,mongodb"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,min=1"`
}

// BatchState is the terminal state of one commit run.
type BatchState string

const (
	BatchPending            BatchState = "pending"
	BatchProcessing         BatchState = "processing"
	BatchCompleted          BatchState = "completed"
	BatchPartiallyCompleted BatchState = "partially_completed"
	BatchAborted            BatchState = "aborted"
)

// BatchError records why one spec in a batch failed. Index is the spec's
// position in the submitted batch, preserved so callers can line errors up
// with their input.
type BatchError struct {
	Index       int             `json:"index"`
	EquipmentID string          `json:"equipment_id"`
	Code        string          `json:"code"`
	Message     string          `json:"message"`
	Retryable   bool            `json:"retryable,omitempty"`
	Conflicts   []ConflictEntry `json:"conflicts,omitempty"`
}

// BatchResult is the aggregate outcome of a batch commit. Bookings and Errors
// preserve submission order. Success means at least one spec was committed;
// Aborted additionally marks that a persistence fault stopped the run early,
// leaving later specs unprocessed (already-committed bookings stay durable).
type BatchResult struct {
	Success      bool         `json:"success"`
	State        BatchState   `json:"state"`
	Aborted      bool         `json:"aborted"`
	CreatedCount int          `json:"created_count"`
	FailedCount  int          `json:"failed_count"`
	Bookings     []*Booking   `json:"bookings"`
	Errors       []BatchError `json:"errors,omitempty"`
}
