package admin

import "context"

// Repository defines the interface for admin persistence operations
type Repository interface {
	Create(ctx context.Context, a *Admin) error
	Update(ctx context.Context, a *Admin) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Admin, error)
	GetByUserID(ctx context.Context, userID uint) (*Admin, error)
	List(ctx context.Context) ([]*Admin, error)
}
