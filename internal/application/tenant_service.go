package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/internal/domain/repository"
)

const defaultSearchLimit = 20

// TenantService backs the admin tenant management endpoints. Callers are
// expected to have passed RequireAdmin.
type TenantService struct {
	Repo          repository.UserRepository
	Auth          *AuthService
	Subscriptions *SubscriptionService
	Logger        *logrus.Logger

	Cache PrincipalCache
	Index TenantIndex
	Audit *Auditor

	now func() time.Time
}

func NewTenantService(repo repository.UserRepository, auth *AuthService, subs *SubscriptionService, logger *logrus.Logger) *TenantService {
	return &TenantService{Repo: repo, Auth: auth, Subscriptions: subs, Logger: logger, now: time.Now}
}

type CreateTenantInput struct {
	Email    string
	Password string
	Name     string
	Tier     string
}

// List returns every non-admin identity with its tier and active flag.
func (s *TenantService) List(ctx context.Context) ([]UserView, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		if u.IsAdmin {
			continue
		}
		out = append(out, NewUserView(u, now))
	}
	return out, nil
}

// Create registers a tenant directly on the requested tier. An empty tier
// means FREE.
func (s *TenantService) Create(ctx context.Context, actor entity.Principal, in CreateTenantInput, meta Meta) (*UserView, error) {
	tier := entity.TierFree
	if strings.TrimSpace(in.Tier) != "" {
		t, ok := entity.ParseTier(in.Tier)
		if !ok {
			return nil, ErrInvalidTier
		}
		tier = t
	}
	u, err := s.Auth.createUser(ctx, RegisterInput{Email: in.Email, Password: in.Password, Name: in.Name}, tier, false)
	if err != nil {
		return nil, err
	}
	s.Auth.Notifier.Welcome(ctx, u)
	s.Audit.Record(ctx, AuditTenantCreate, actor.ID, actor.Email, meta, map[string]any{
		"target_user_id": u.ID,
		"tier":           string(tier),
	})
	v := NewUserView(u, s.now())
	return &v, nil
}

// ChangeSubscription resets the tenant's subscription to tier.
func (s *TenantService) ChangeSubscription(ctx context.Context, actor entity.Principal, id, tier string, meta Meta) (*SubscriptionView, error) {
	ok, err := s.Repo.ExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}
	return s.Subscriptions.Upgrade(ctx, id, tier, actor, meta)
}

// Delete removes a tenant together with its subscription and todos.
// Admin identities are refused.
func (s *TenantService) Delete(ctx context.Context, actor entity.Principal, id string, meta Meta) error {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if u.IsAdmin {
		return ErrCannotDeleteAdmin
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, u.Email); err != nil {
			s.Logger.WithError(err).Warn("principal cache invalidate failed")
		}
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("tenant index delete failed")
		}
	}
	s.Audit.Record(ctx, AuditTenantDelete, actor.ID, actor.Email, meta, map[string]any{
		"target_user_id": id,
		"target_email":   u.Email,
	})
	return nil
}

// Search queries the tenant index. Without an index it returns no results.
func (s *TenantService) Search(ctx context.Context, query string, limit int) ([]TenantDoc, error) {
	query = strings.TrimSpace(query)
	if s.Index == nil || query == "" {
		return []TenantDoc{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = defaultSearchLimit
	}
	return s.Index.Search(ctx, query, limit)
}
