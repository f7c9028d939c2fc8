package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository is the credential store. Users are always loaded together
// with their subscription.
type UserRepository interface {
	// Create inserts u and its subscription atomically. A taken email yields
	// ErrDuplicateEmail.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	// SaveSubscription writes tier, start and end as one tuple, creating the
	// row when the user has none.
	SaveSubscription(ctx context.Context, s *entity.Subscription) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]*entity.User, error)
}
