package model

import (
	"time"
)

// Booking reserves a resource for a half-open interval [StartTime, EndTime).
// UserID, ResourceID and the interval are immutable after creation; only
// Status moves, and only through the transitions in statusTransitions.
type Booking struct {
	ID         string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID     string        `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	ResourceID string        `json:"resource_id" bson:"resource_id" validate:"required,mongodb"`
	StartTime  time.Time     `json:"start_time" bson:"start_time" validate:"required"`
	EndTime    time.Time     `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Purpose    string        `json:"purpose" bson:"purpose" validate:"omitempty,max=500"`
	Status     BookingStatus `json:"status" bson:"status" validate:"required,oneof=PENDING APPROVED REJECTED CANCELLED"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt  time.Time     `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// BookingRequest is the payload a user submits to reserve a slot.
type BookingRequest struct {
	ResourceID string    `json:"resource_id" validate:"required,mongodb"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" validate:"required"`
	Purpose    string    `json:"purpose" validate:"omitempty,max=500"`
}

// Overlaps reports whether the booking's interval intersects [start, end)
// under the half-open rule. Adjacent intervals do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}
