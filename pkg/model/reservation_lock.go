package model

import "time"

// ReservationLock is an advisory lock document keyed by equipment id. A
// unique-index insert either takes the lock or fails with a duplicate key,
// which serializes check-then-commit across processes. ExpiresAt backs a TTL
// index so a crashed holder cannot wedge an equipment item.
type ReservationLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
