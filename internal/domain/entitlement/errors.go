package entitlement

import "errors"

var (
	// ErrEntitlementNotFound is returned when an entitlement is not found
	ErrEntitlementNotFound = errors.New("entitlement not found")

	// ErrInvalidSource is returned when an invalid source is provided
	ErrInvalidSource = errors.New("invalid entitlement source")

	// ErrDuplicateEntitlement is returned when a pair already has an entitlement row
	ErrDuplicateEntitlement = errors.New("entitlement already exists for this pair")

	// ErrVersionConflict is returned when an optimistic update lost the race
	ErrVersionConflict = errors.New("entitlement was modified concurrently")
)
