package song

import "context"

// Repository defines the interface for song persistence operations
type Repository interface {
	Create(ctx context.Context, s *Song) error
	Update(ctx context.Context, s *Song) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Song, error)
	List(ctx context.Context, publishedOnly bool) ([]*Song, error)
}
