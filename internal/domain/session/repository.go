package session

import "context"

// Repository defines the interface for session and performance persistence
type Repository interface {
	Create(ctx context.Context, s *Session) error
	Update(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id uint) (*Session, error)
	GetByUser(ctx context.Context, userID uint) ([]*Session, error)

	// ExistsBySongVersion reports whether any session references the given
	// song at the given version. Songs freeze gameplay data once this is true.
	ExistsBySongVersion(ctx context.Context, songID uint, version string) (bool, error)

	// CreatePerformance inserts the 1:1 performance row for a session.
	// A second insert for the same session surfaces as a conflict via the
	// primary key on session ID.
	CreatePerformance(ctx context.Context, p *Performance) error

	// GetPerformance retrieves the performance row for a session
	GetPerformance(ctx context.Context, sessionID uint) (*Performance, error)
}
