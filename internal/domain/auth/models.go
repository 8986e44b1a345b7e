package auth

import "time"

const (
	RoleHR    = "HR"
	RoleAdmin = "ADMIN"

	StatusPending  = "pending"
	StatusActive   = "active"
	StatusRejected = "rejected"
)

var Roles = []string{RoleHR, RoleAdmin}

type User struct {
	ID           string     `json:"id" bson:"_id"`
	Name         string     `json:"name" bson:"name"`
	Email        string     `json:"email" bson:"email"`
	PasswordHash string     `json:"-" bson:"password_hash"`
	Role         string     `json:"role" bson:"role"`
	Status       string     `json:"status" bson:"status"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"created_at"`
}
