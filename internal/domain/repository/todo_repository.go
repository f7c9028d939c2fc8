package repository

import (
	"context"
	"time"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
)

// TodoRepository defines persistence for to-do items.
type TodoRepository interface {
	Create(ctx context.Context, t *entity.Todo) error
	GetByID(ctx context.Context, id string) (*entity.Todo, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Todo, error)
	ListOverdue(ctx context.Context, userID string, now time.Time) ([]*entity.Todo, error)
	Update(ctx context.Context, t *entity.Todo) error
	Delete(ctx context.Context, id string) error
}
