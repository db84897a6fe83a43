package model

import "time"

// Resource is a bookable unit (room, projector, lab bench). The booking
// engine only cares that it exists and is active; everything else is
// catalog metadata.
type Resource struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description" bson:"description" validate:"omitempty,max=500"`
	Location    string    `json:"location" bson:"location" validate:"omitempty,max=200"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ResourceRequest is the admin payload for adding a resource to the catalog.
// Active defaults to true when omitted.
type ResourceRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Location    string `json:"location" validate:"omitempty,max=200"`
	Active      *bool  `json:"active" validate:"omitempty"`
}
