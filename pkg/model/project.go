package model

import "time"

type ProjectStatus string

const (
	ProjectPlanned  ProjectStatus = "planned"
	ProjectRunning  ProjectStatus = "running"
	ProjectWrapped  ProjectStatus = "wrapped"
	ProjectArchived ProjectStatus = "archived"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectPlanned, ProjectRunning, ProjectWrapped, ProjectArchived:
		return true
	}
	return false
}

// CanTransitionTo encodes the project lifecycle: planned -> running ->
// wrapped -> archived, with early archiving allowed from any state.
func (s ProjectStatus) CanTransitionTo(target ProjectStatus) bool {
	if target == ProjectArchived {
		return s != ProjectArchived
	}
	switch s {
	case ProjectPlanned:
		return target == ProjectRunning
	case ProjectRunning:
		return target == ProjectWrapped
	}
	return false
}

// Project groups the bookings of one shoot/event for a client.
type Project struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ClientID  string        `json:"client_id" bson:"client_id" validate:"required,mongodb"`
	Name      string        `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Site      string        `json:"site,omitempty" bson:"site,omitempty" validate:"omitempty,max=200"`
	StartDate time.Time     `json:"start_date" bson:"start_date" validate:"required"`
	EndDate   time.Time     `json:"end_date" bson:"end_date" validate:"required,gtfield=StartDate"`
	Status    ProjectStatus `json:"status" bson:"status" validate:"required,oneof=planned running wrapped archived"`
	Notes     string        `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// ProjectUpdate carries partial project changes.
type ProjectUpdate struct {
	Name      string        `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Site      *string       `json:"site,omitempty" validate:"omitempty,max=200"`
	StartDate *time.Time    `json:"start_date,omitempty" validate:"omitempty"`
	EndDate   *time.Time    `json:"end_date,omitempty" validate:"omitempty"`
	Status    ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=planned running wrapped archived"`
	Notes     *string       `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
