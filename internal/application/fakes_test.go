package application

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/internal/domain/repository"
	"github.com/oksasatya/todo-tenant-api/pkg/helpers"
)

const testSecret = "dG9kby10ZW5hbnQtYXBpLWRldmVsb3BtZW50LXNpZ25pbmcta2V5LWNoYW5nZS1tZS1pbi1wcm9kdWN0aW9uISE="

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memUsers struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]*entity.User{}}
}

func clone(u *entity.User) *entity.User {
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
	r.users[u.ID] = clone(u)
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(u), nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return clone(u), nil
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
			out = append(out, clone(u))
		}
	}
	return out, nil
}

type memTodos struct {
	mu    sync.Mutex
	seq   int
	todos map[string]*entity.Todo
}

func newMemTodos() *memTodos {
	return &memTodos{todos: map[string]*entity.Todo{}}
}

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
	t, ok := r.todos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *t
	return &c, nil
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

type memAudit struct {
	mu      sync.Mutex
	entries []repository.AuditEntry
}

func (r *memAudit) Insert(_ context.Context, e repository.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *memAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(ctx context.Context, body any) error {
	return m.Called(body).Error(0)
}

type mockIndex struct {
	mock.Mock
}

func (m *mockIndex) Index(ctx context.Context, doc TenantDoc) error {
	return m.Called(doc).Error(0)
}

func (m *mockIndex) Remove(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

func (m *mockIndex) Search(ctx context.Context, query string, limit int) ([]TenantDoc, error) {
	args := m.Called(query, limit)
	docs, _ := args.Get(0).([]TenantDoc)
	return docs, args.Error(1)
}

type memCache struct {
	mu      sync.Mutex
	byEmail map[string]entity.Principal
	gets    int
}

func newMemCache() *memCache {
	return &memCache{byEmail: map[string]entity.Principal{}}
}

func (c *memCache) Get(_ context.Context, email string) (*entity.Principal, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	p, ok := c.byEmail[email]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (c *memCache) Set(_ context.Context, p entity.Principal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byEmail[p.Email] = p
	return nil
}

func (c *memCache) Invalidate(_ context.Context, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byEmail, email)
	return nil
}

type memImages struct {
	puts map[string]string
}

func (s *memImages) Put(_ context.Context, key, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if s.puts == nil {
		s.puts = map[string]string{}
	}
	s.puts[key] = string(b)
	return "https://img.test/" + key, nil
}

type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	users   *memUsers
	todos   *memTodos
	audit   *memAudit
	clock   *fixedClock
	jwt     *helpers.JWTManager
	auth    *AuthService
	subs    *SubscriptionService
	tenants *TenantService
	todoSvc *TodoService
}

func newFixture() *fixture {
	f := &fixture{
		users: newMemUsers(),
		todos: newMemTodos(),
		audit: &memAudit{},
		clock: &fixedClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)},
	}
	logger := quietLogger()
	jwt, err := helpers.NewJWTManager(testSecret, time.Hour)
	if err != nil {
		panic(err)
	}
	f.jwt = jwt.WithClock(f.clock.Now)
	auditor := NewAuditor(f.audit, logger)

	f.auth = NewAuthService(f.users, helpers.NewPasswordHasher(4), f.jwt, logger)
	f.auth.now = f.clock.Now
	f.auth.Audit = auditor

	f.subs = NewSubscriptionService(f.users, logger)
	f.subs.now = f.clock.Now
	f.subs.Audit = auditor

	f.tenants = NewTenantService(f.users, f.auth, f.subs, logger)
	f.tenants.now = f.clock.Now
	f.tenants.Audit = auditor

	f.todoSvc = NewTodoService(f.todos, f.users, logger)
	f.todoSvc.now = f.clock.Now
	return f
}

func (f *fixture) register(email, name string) *AuthResult {
	res, err := f.auth.Register(context.Background(), RegisterInput{Email: email, Password: "pw-" + strings.ToLower(name), Name: name}, Meta{})
	if err != nil {
		panic(err)
	}
	// Subscriptions are inactive at the exact instant they start.
	f.clock.Advance(time.Second)
	return res
}
