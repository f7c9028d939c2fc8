package router

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/internal/domain/repository"
)

type memUsers struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*entity.User{}} }

func cloneUser(u *entity.User) *entity.User {
	c := *u
	if u.Subscription != nil {
		s := *u.Subscription
		c.Subscription = &s
	}
	return &c
}

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	if u.Subscription != nil {
		u.Subscription.UserID = u.ID
		u.Subscription.ID = "sub-" + u.ID
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *memUsers) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Name, cur.ContactNumber, cur.Position = u.Name, u.ContactNumber, u.Position
	return nil
}

func (r *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Password = hash
	return nil
}

func (r *memUsers) SaveSubscription(_ context.Context, s *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.users[s.UserID]
	if !ok {
		return repository.ErrNotFound
	}
	if s.ID == "" {
		s.ID = "sub-" + s.UserID
	}
	c := *s
	cur.Subscription = &c
	return nil
}

func (r *memUsers) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUsers) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

func (r *memUsers) List(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for i := 1; i <= r.seq; i++ {
		if u, ok := r.users[fmt.Sprintf("user-%d", i)]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

type memTodos struct {
	mu    sync.Mutex
	seq   int
	todos map[string]*entity.Todo
}

func newMemTodos() *memTodos { return &memTodos{todos: map[string]*entity.Todo{}} }

func (r *memTodos) Create(_ context.Context, t *entity.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	t.ID = fmt.Sprintf("todo-%d", r.seq)
	c := *t
	r.todos[t.ID] = &c
	return nil
}

func (r *memTodos) GetByID(_ context.Context, id string) (*entity.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.todos[id]; ok {
		c := *t
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memTodos) ListByUser(_ context.Context, userID string) ([]*entity.Todo, error) {
	return r.filter(func(t *entity.Todo) bool { return t.UserID == userID }), nil
}

func (r *memTodos) ListOverdue(_ context.Context, userID string, now time.Time) ([]*entity.Todo, error) {
	return r.filter(func(t *entity.Todo) bool {
		return t.UserID == userID && t.DueDate != nil && t.DueDate.Before(now) && !t.Completed
	}), nil
}

func (r *memTodos) filter(keep func(*entity.Todo) bool) []*entity.Todo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Todo, 0)
	for i := 1; i <= r.seq; i++ {
		if t, ok := r.todos[fmt.Sprintf("todo-%d", i)]; ok && keep(t) {
			c := *t
			out = append(out, &c)
		}
	}
	return out
}

func (r *memTodos) Update(_ context.Context, t *entity.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[t.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *t
	r.todos[t.ID] = &c
	return nil
}

func (r *memTodos) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.todos, id)
	return nil
}
