// FILE: internal/entity/user_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleViewer UserRole = "viewer"
)

// User is a dashboard login, not a billing customer.
type User struct {
	Id           uuid.UUID
	Name         string
	Email        string
	PasswordHash *string // nil for OAuth-only accounts
	Role         UserRole
	CompanyId    *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
