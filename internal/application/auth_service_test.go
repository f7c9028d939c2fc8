package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/pkg/mailer"
	mailtpl "github.com/oksasatya/todo-tenant-api/pkg/mailer/templates"
)

func TestRegister_IssuesTokenForNewUser(t *testing.T) {
	f := newFixture()

	res, err := f.auth.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: "pw1", Name: "Alice"}, Meta{IP: "10.0.0.1"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, "a@x.com", res.User.Email)
	assert.False(t, res.User.IsAdmin)
	require.NotNil(t, res.User.Subscription)
	assert.Equal(t, entity.TierFree, res.User.Subscription.Tier)
	assert.Equal(t, res.User.Subscription.StartDate.AddDate(100, 0, 0), res.User.Subscription.EndDate)

	claims, err := f.jwt.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email())
	assert.Equal(t, "Alice", claims.Name)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, res.User.ID, claims.UserID)

	stored, err := f.users.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.Password)
	assert.Contains(t, f.audit.actions(), AuditRegister)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture()
	f.register("a@x.com", "Alice")

	_, err := f.auth.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: "other", Name: "Eve"}, Meta{})
	assert.ErrorIs(t, err, ErrEmailTaken)

	n, _ := f.users.Count(context.Background())
	assert.Equal(t, 1, n)
}

func TestRegister_QueuesWelcomeEmail(t *testing.T) {
	f := newFixture()
	pub := &mockPublisher{}
	pub.On("PublishJSON", mock.MatchedBy(func(job mailer.EmailJob) bool {
		return job.To == "a@x.com" && job.Template == mailtpl.Welcome
	})).Return(nil).Once()
	f.auth.Notifier = NewNotifier(pub, mailtpl.Defaults{AppName: "Todo"}, quietLogger())

	f.register("a@x.com", "Alice")
	pub.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	f.register("a@x.com", "Alice")

	t.Run("valid credentials", func(t *testing.T) {
		res, err := f.auth.Login(context.Background(), "a@x.com", "pw-alice", Meta{})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		res, err := f.auth.Login(context.Background(), "a@x.com", "nope", Meta{})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, res)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.auth.Login(context.Background(), "ghost@x.com", "pw-alice", Meta{})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	assert.Contains(t, f.audit.actions(), AuditLoginFailed)
	assert.Contains(t, f.audit.actions(), AuditLoginSuccess)
}

func TestResolvePrincipal_UsesCache(t *testing.T) {
	f := newFixture()
	cache := newMemCache()
	f.auth.Cache = cache
	reg := f.register("a@x.com", "Alice")

	p, err := f.auth.ResolvePrincipal(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, p.ID)

	// Served from cache even after the row is gone.
	require.NoError(t, f.users.Delete(context.Background(), reg.User.ID))
	p, err = f.auth.ResolvePrincipal(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, p.ID)

	require.NoError(t, cache.Invalidate(context.Background(), "a@x.com"))
	_, err = f.auth.ResolvePrincipal(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// foldingCache shares one entry between emails that differ only in case.
type foldingCache struct{ *memCache }

func (c foldingCache) Get(ctx context.Context, email string) (*entity.Principal, bool, error) {
	return c.memCache.Get(ctx, strings.ToLower(email))
}

func (c foldingCache) Set(ctx context.Context, p entity.Principal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byEmail[strings.ToLower(p.Email)] = p
	return nil
}

func TestResolvePrincipal_CaseVariantsStaySeparate(t *testing.T) {
	caches := map[string]PrincipalCache{
		"exact":   newMemCache(),
		"folding": foldingCache{newMemCache()},
	}
	for name, cache := range caches {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.auth.Cache = cache
			ctx := context.Background()

			_, err := f.auth.EnsureInitialAdmin(ctx, "admin@todo.local", "root-pass", "Root")
			require.NoError(t, err)
			tenant := f.register("ADMIN@todo.local", "Mallory")

			admin, err := f.auth.ResolvePrincipal(ctx, "admin@todo.local")
			require.NoError(t, err)
			require.True(t, admin.IsAdmin)

			p, err := f.auth.ResolvePrincipal(ctx, "ADMIN@todo.local")
			require.NoError(t, err)
			assert.Equal(t, tenant.User.ID, p.ID)
			assert.Equal(t, "ADMIN@todo.local", p.Email)
			assert.False(t, p.IsAdmin)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture()
	reg := f.register("a@x.com", "Alice")
	name, phone := "Alice B", "+628123456789"

	v, err := f.auth.UpdateProfile(context.Background(), reg.User.ID, UpdateProfileInput{Name: &name, ContactNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", v.Name)
	assert.Equal(t, "+628123456789", v.ContactNumber)
	assert.Empty(t, v.Position)

	_, err = f.auth.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	f := newFixture()
	reg := f.register("a@x.com", "Alice")

	err := f.auth.ChangePassword(context.Background(), reg.User.ID, "wrong", "new-secret", Meta{})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	require.NoError(t, f.auth.ChangePassword(context.Background(), reg.User.ID, "pw-alice", "new-secret", Meta{}))

	_, err = f.auth.Login(context.Background(), "a@x.com", "pw-alice", Meta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(context.Background(), "a@x.com", "new-secret", Meta{})
	assert.NoError(t, err)
	assert.Contains(t, f.audit.actions(), AuditPasswordChange)
}

func TestEnsureInitialAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.auth.EnsureInitialAdmin(ctx, "admin@x.com", "admin-pw", "Admin")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.auth.EnsureInitialAdmin(ctx, "admin@x.com", "admin-pw", "Admin")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := f.users.GetByEmail(ctx, "admin@x.com")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	require.NotNil(t, admin.Subscription)

	n, _ := f.users.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestEnsureInitialAdmin_OtherUsersDoNotBlockBootstrap(t *testing.T) {
	f := newFixture()
	f.register("a@x.com", "Alice")

	created, err := f.auth.EnsureInitialAdmin(context.Background(), "admin@x.com", "admin-pw", "Admin")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestEnsureInitialAdmin_RequiresPassword(t *testing.T) {
	f := newFixture()

	_, err := f.auth.EnsureInitialAdmin(context.Background(), "admin@x.com", "", "Admin")
	assert.Error(t, err)
}

func TestPasswordOverBcryptLimit(t *testing.T) {
	f := newFixture()
	long := strings.Repeat("é", 40)

	_, err := f.auth.Register(context.Background(), RegisterInput{Email: "b@x.com", Password: long, Name: "Bob"}, Meta{})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	n, _ := f.users.Count(context.Background())
	assert.Zero(t, n)

	reg := f.register("a@x.com", "Alice")
	err = f.auth.ChangePassword(context.Background(), reg.User.ID, "pw-alice", long, Meta{})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
