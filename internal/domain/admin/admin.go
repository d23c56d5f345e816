// Package admin provides the privilege-record domain model.
// At most one admin record exists per user; it is a back-reference looked up
// by user ID, never embedded in the user aggregate.
package admin

import (
	"fmt"
	"time"
)

// Role represents an administrative role
type Role string

const (
	RoleEditor     Role = "editor"
	RolePublisher  Role = "publisher"
	RoleSuperadmin Role = "superadmin"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleEditor, RolePublisher, RoleSuperadmin:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Admin is a privilege record for a user.
type Admin struct {
	id        uint
	userID    uint
	role      Role
	grantedAt time.Time
	updatedAt time.Time
}

// NewAdmin creates an admin record for a user.
func NewAdmin(userID uint, role Role) (*Admin, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	now := time.Now()
	return &Admin{
		userID:    userID,
		role:      role,
		grantedAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructAdmin reconstructs an admin record from persistence.
func ReconstructAdmin(id, userID uint, role Role, grantedAt, updatedAt time.Time) (*Admin, error) {
	if id == 0 {
		return nil, fmt.Errorf("admin ID cannot be zero")
	}
	return &Admin{
		id:        id,
		userID:    userID,
		role:      role,
		grantedAt: grantedAt,
		updatedAt: updatedAt,
	}, nil
}

func (a *Admin) ID() uint             { return a.id }
func (a *Admin) UserID() uint         { return a.userID }
func (a *Admin) Role() Role           { return a.role }
func (a *Admin) GrantedAt() time.Time { return a.grantedAt }
func (a *Admin) UpdatedAt() time.Time { return a.updatedAt }

// SetID sets the admin ID (only for persistence layer use)
func (a *Admin) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("admin ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("admin ID cannot be zero")
	}
	a.id = id
	return nil
}

// ChangeRole updates the role.
func (a *Admin) ChangeRole(role Role) error {
	if !role.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}
	a.role = role
	a.updatedAt = time.Now()
	return nil
}
