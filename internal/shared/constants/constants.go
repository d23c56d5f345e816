// Package constants holds context keys shared between middleware and handlers.
package constants

const (
	// ContextKeyUserID is the authenticated caller's user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyAdminRole is the authenticated caller's admin role.
	ContextKeyAdminRole = "admin_role"
)
