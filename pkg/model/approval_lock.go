package model

import "time"

// ApprovalLock is an advisory lock serializing the overlap-check-then-write
// sequence of booking approval. One lock per resource (and one per user) is
// held for the duration of the approval; the unique _id makes acquisition a
// single atomic insert.
type ApprovalLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
