package model

import "time"

// Role gates admin routes
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account. PasswordHash is bcrypt and never serialized.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	FullName     string    `json:"fullName,omitempty" bson:"fullName,omitempty"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         Role      `json:"role" bson:"role"`
	HasConsented bool      `json:"hasConsented" bson:"hasConsented"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}
