package model

import "time"

// Client is a renting customer (person or company).
type Client struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Company   string    `json:"company,omitempty" bson:"company,omitempty" validate:"omitempty,max=120"`
	Phone     string    `json:"phone" bson:"phone" validate:"required,e164"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// ClientUpdate carries partial client changes.
type ClientUpdate struct {
	Name    string  `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Company *string `json:"company,omitempty" validate:"omitempty,max=120"`
	Phone   string  `json:"phone,omitempty" validate:"omitempty,e164"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
