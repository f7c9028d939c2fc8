package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/internal/domain/repository"
)

// TodoService implements owner-scoped todo operations. Every mutation
// re-derives overdue and status before it is stored.
type TodoService struct {
	Todos  repository.TodoRepository
	Users  repository.UserRepository
	Logger *logrus.Logger

	Images        ImageStore
	MaxImageBytes int64

	now func() time.Time
}

func NewTodoService(todos repository.TodoRepository, users repository.UserRepository, logger *logrus.Logger) *TodoService {
	return &TodoService{Todos: todos, Users: users, Logger: logger, now: time.Now}
}

// TodoInput is a full replacement of the editable fields. A nil DueDate
// keeps the stored due date on update. A nil ImageURL keeps the stored image.
type TodoInput struct {
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time
	Priority    string
	Status      string
	ImageURL    *string
}

// ImageUpload describes an uploaded file.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (s *TodoService) List(ctx context.Context, p entity.Principal) ([]*entity.Todo, error) {
	list, err := s.Todos.ListByUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return s.refresh(list), nil
}

// Overdue lists the caller's todos whose due date has passed and that are
// still open.
func (s *TodoService) Overdue(ctx context.Context, p entity.Principal) ([]*entity.Todo, error) {
	list, err := s.Todos.ListOverdue(ctx, p.ID, s.now())
	if err != nil {
		return nil, err
	}
	return s.refresh(list), nil
}

// Create requires the caller's subscription to be active.
func (s *TodoService) Create(ctx context.Context, p entity.Principal, in TodoInput) (*entity.Todo, error) {
	now := s.now()
	if err := s.requireActive(ctx, p.ID, now); err != nil {
		return nil, err
	}
	td := &entity.Todo{UserID: p.ID, Status: entity.StatusNotStarted}
	if err := apply(td, in); err != nil {
		return nil, err
	}
	td.Touch(now)
	if err := s.Todos.Create(ctx, td); err != nil {
		return nil, err
	}
	return td, nil
}

func (s *TodoService) Update(ctx context.Context, p entity.Principal, id string, in TodoInput) (*entity.Todo, error) {
	td, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := apply(td, in); err != nil {
		return nil, err
	}
	td.Touch(s.now())
	if err := s.Todos.Update(ctx, td); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return td, nil
}

func (s *TodoService) Delete(ctx context.Context, p entity.Principal, id string) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}
	if err := s.Todos.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTodoNotFound
		}
		return err
	}
	return nil
}

// AttachImage stores an image for the todo and records its URL.
func (s *TodoService) AttachImage(ctx context.Context, p entity.Principal, id string, img ImageUpload) (*entity.Todo, error) {
	if s.Images == nil {
		return nil, ErrStorageDisabled
	}
	td, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.requireActive(ctx, p.ID, now); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(img.ContentType, "image/") {
		return nil, ErrInvalidImage
	}
	if s.MaxImageBytes > 0 && img.Size > s.MaxImageBytes {
		return nil, ErrImageTooLarge
	}

	key := fmt.Sprintf("todos/%s/%s/%s%s", p.ID, td.ID, uuid.NewString(), strings.ToLower(path.Ext(img.Filename)))
	url, err := s.Images.Put(ctx, key, img.ContentType, img.Body)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	td.ImageURL = url
	td.Touch(now)
	if err := s.Todos.Update(ctx, td); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"todo_id": td.ID, "key": key}).Info("todo image stored")
	return td, nil
}

// owned loads a todo and checks the caller owns it. Existence is checked
// before ownership.
func (s *TodoService) owned(ctx context.Context, p entity.Principal, id string) (*entity.Todo, error) {
	td, err := s.Todos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	if err := RequireOwner(&p, td.UserID); err != nil {
		return nil, err
	}
	return td, nil
}

func (s *TodoService) requireActive(ctx context.Context, userID string, now time.Time) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return RequireActiveSubscription(u.Subscription, now)
}

func (s *TodoService) refresh(list []*entity.Todo) []*entity.Todo {
	now := s.now()
	for _, td := range list {
		td.Recompute(now)
	}
	return list
}

func apply(td *entity.Todo, in TodoInput) error {
	priority, ok := entity.ParsePriority(in.Priority)
	if !ok {
		return ErrInvalidPriority
	}
	if in.Status != "" {
		status, ok := entity.ParseStatus(in.Status)
		if !ok {
			return ErrInvalidStatus
		}
		td.Status = status
	}
	td.Title = strings.TrimSpace(in.Title)
	td.Description = in.Description
	td.Completed = in.Completed
	td.Priority = priority
	if in.DueDate != nil {
		d := *in.DueDate
		td.DueDate = &d
	}
	if in.ImageURL != nil {
		td.ImageURL = *in.ImageURL
	}
	return nil
}
