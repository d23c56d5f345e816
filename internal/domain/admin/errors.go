package admin

import "errors"

var (
	// ErrAdminNotFound is returned when an admin record is not found
	ErrAdminNotFound = errors.New("admin record not found")

	// ErrInvalidRole is returned for unknown roles
	ErrInvalidRole = errors.New("invalid admin role")

	// ErrAlreadyAdmin is returned when the user already has an admin record
	ErrAlreadyAdmin = errors.New("user already has an admin role")
)
