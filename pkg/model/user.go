package model

import "time"

// UserRole is the capability tag passed into the booking engine. The engine
// never derives roles itself; it trusts what the auth layer resolved.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// IsAdmin reports whether the role carries administrative capabilities.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         UserRole  `json:"role" bson:"role" validate:"required,oneof=user admin"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
