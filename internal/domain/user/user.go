package user

import (
	"errors"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleOps    = "ops"
	RoleDriver = "driver"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Role         string    `json:"role"`
	ImageURL     *string   `json:"imageUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsManagement reports whether the user sees the management dashboard.
// admin and ops share the same view; drivers get their own.
func (u User) IsManagement() bool {
	return u.Role == RoleAdmin || u.Role == RoleOps
}
