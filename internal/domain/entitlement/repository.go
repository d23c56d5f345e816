package entitlement

import "context"

// Repository defines the interface for entitlement persistence operations
type Repository interface {
	// Create creates a new entitlement. A racing create for the same pair
	// surfaces as a conflict through the unique (user, song) index.
	Create(ctx context.Context, e *Entitlement) error

	// Update persists changes using the aggregate version as an optimistic
	// lock token. An update that matches no row because the version moved
	// returns ErrVersionConflict.
	Update(ctx context.Context, e *Entitlement) error

	// GetByPair retrieves the entitlement for a (user, song) pair
	GetByPair(ctx context.Context, userID, songID uint) (*Entitlement, error)

	// GetByUser retrieves all entitlements for a user
	GetByUser(ctx context.Context, userID uint) ([]*Entitlement, error)

	// ExistsByPair checks whether an entitlement row exists for the pair
	ExistsByPair(ctx context.Context, userID, songID uint) (bool, error)

	// DeleteByPair removes the entitlement for a pair. Deleting a missing
	// pair is not an error; revocation is idempotent.
	DeleteByPair(ctx context.Context, userID, songID uint) error
}
