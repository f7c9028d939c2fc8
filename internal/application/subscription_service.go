package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/internal/domain/repository"
)

// SubscriptionService reads and resets subscription windows.
type SubscriptionService struct {
	Repo   repository.UserRepository
	Logger *logrus.Logger

	Index    TenantIndex
	Notifier *Notifier
	Audit    *Auditor

	now func() time.Time
}

func NewSubscriptionService(repo repository.UserRepository, logger *logrus.Logger) *SubscriptionService {
	return &SubscriptionService{Repo: repo, Logger: logger, now: time.Now}
}

// Status returns the subscription of userID evaluated at the current time.
func (s *SubscriptionService) Status(ctx context.Context, userID string) (*SubscriptionView, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Subscription == nil {
		return nil, ErrSubscriptionNotFound
	}
	return NewSubscriptionView(u.Subscription, s.now()), nil
}

// Upgrade resets userID's subscription to tier starting now. A user without
// a subscription row gets one. Downgrades to FREE use the same path.
func (s *SubscriptionService) Upgrade(ctx context.Context, userID, tier string, actor entity.Principal, meta Meta) (*SubscriptionView, error) {
	t, ok := entity.ParseTier(tier)
	if !ok {
		return nil, ErrInvalidTier
	}
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sub := u.Subscription
	if sub == nil {
		sub = &entity.Subscription{UserID: u.ID}
		u.Subscription = sub
	}
	previous := sub.Tier
	sub.Reset(t, now)
	if err := s.Repo.SaveSubscription(ctx, sub); err != nil {
		return nil, err
	}
	upgradesTotal.Add(1)

	s.Logger.WithFields(logrus.Fields{
		"user_id": u.ID,
		"from":    previous,
		"to":      t,
		"actor":   actor.ID,
	}).Info("subscription changed")
	s.Notifier.SubscriptionChanged(ctx, u, sub)
	s.Audit.Record(ctx, AuditSubscriptionChange, actor.ID, actor.Email, meta, map[string]any{
		"target_user_id": u.ID,
		"from":           string(previous),
		"to":             string(t),
	})
	if s.Index != nil && !u.IsAdmin {
		if err := s.Index.Index(ctx, tenantDoc(u)); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("tenant index update failed")
		}
	}
	return NewSubscriptionView(sub, now), nil
}

func (s *SubscriptionService) getUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
