package model

import "time"

// Equipment is one catalog entry: a pooled stock line or a unique
// (serialized) item. Unique items carry a serial number and behave as a pool
// of one with exclusive occupancy.
type Equipment struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name           string    `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Category       string    `json:"category" bson:"category" validate:"required,min=2,max=60"`
	TotalQuantity  int       `json:"total_quantity" bson:"total_quantity" validate:"required,min=1,max=10000"`
	Unique         bool      `json:"unique" bson:"unique"`
	SerialNumber   string    `json:"serial_number,omitempty" bson:"serial_number,omitempty" validate:"omitempty,max=64"`
	DailyRateCents int64     `json:"daily_rate_cents" bson:"daily_rate_cents" validate:"min=0"`
	Notes          string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Capacity resolves the catalog entry into the policy the availability engine
// works with. The unique flag is decided here, once, at the catalog boundary;
// the engine never re-infers it from other fields.
func (e *Equipment) Capacity() EquipmentCapacity {
	total := e.TotalQuantity
	if e.Unique {
		total = 1
	}
	return EquipmentCapacity{
		EquipmentID:   e.ID,
		TotalQuantity: total,
		Unique:        e.Unique,
	}
}

// EquipmentCapacity is the capacity policy for one equipment item, immutable
// for the duration of a request.
type EquipmentCapacity struct {
	EquipmentID   string `json:"equipment_id"`
	TotalQuantity int    `json:"total_quantity"`
	Unique        bool   `json:"unique"`
}

// EquipmentUpdate carries partial catalog changes; nil/zero fields are left
// untouched by the service merge.
type EquipmentUpdate struct {
	Name           string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Category       string `json:"category,omitempty" validate:"omitempty,min=2,max=60"`
	TotalQuantity  *int   `json:"total_quantity,omitempty" validate:"omitempty,min=1,max=10000"`
	SerialNumber   *string `json:"serial_number,omitempty" validate:"omitempty,max=64"`
	DailyRateCents *int64 `json:"daily_rate_cents,omitempty" validate:"omitempty,min=0"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
