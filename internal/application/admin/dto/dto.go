// Package dto contains request and response shapes for admin management.
package dto

import "time"

// AdminResponse is the wire shape of an admin record.
type AdminResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Role      string    `json:"role"`
	GrantedAt time.Time `json:"granted_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateAdminRequest promotes a user to an admin role.
type CreateAdminRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// ChangeRoleRequest changes an admin's role.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}
