package models

import "time"

// Role distinguishes admin users from field collectors
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCollector Role = "collector"
)

// User represents a user in the system: an admin or a collector
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"` // Not serialized
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
