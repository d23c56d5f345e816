package purchase

import (
	"context"
	"time"
)

// Repository defines the interface for purchase persistence operations
type Repository interface {
	// Create inserts a new purchase row
	Create(ctx context.Context, p *Purchase) error

	// Update persists refund state changes
	Update(ctx context.Context, p *Purchase) error

	// GetByID retrieves a purchase by ID
	GetByID(ctx context.Context, id uint) (*Purchase, error)

	// GetByUser retrieves all purchases by a user
	GetByUser(ctx context.Context, userID uint) ([]*Purchase, error)

	// List retrieves all purchases
	List(ctx context.Context) ([]*Purchase, error)

	// FindDuplicate looks for a non-refunded purchase with identical
	// (user, song, amount, currency, reference) recorded at or after since.
	// Returns nil when no duplicate exists.
	FindDuplicate(ctx context.Context, userID, songID uint, amountCents int64,
		currency, reference string, since time.Time) (*Purchase, error)

	// ExistsOtherActiveByPair reports whether a non-refunded purchase other
	// than excludeID exists for the pair. Used when a refund re-derives the
	// pair's entitlement.
	ExistsOtherActiveByPair(ctx context.Context, userID, songID, excludeID uint) (bool, error)
}
