package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/internal/domain/repository"
	"github.com/oksasatya/todo-tenant-api/pkg/helpers"
)

// AuthService owns registration, login, profile and password operations and
// resolves token subjects into principals.
type AuthService struct {
	Repo   repository.UserRepository
	Hasher *helpers.PasswordHasher
	JWT    *helpers.JWTManager
	Logger *logrus.Logger

	// Optional collaborators; nil disables them.
	Cache    PrincipalCache
	Index    TenantIndex
	Notifier *Notifier
	Audit    *Auditor

	now func() time.Time
}

func NewAuthService(repo repository.UserRepository, hasher *helpers.PasswordHasher, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, Hasher: hasher, JWT: jwt, Logger: logger, now: time.Now}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type UpdateProfileInput struct {
	Name          *string
	ContactNumber *string
	Position      *string
}

// Register creates a user with a FREE subscription and returns a token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta Meta) (*AuthResult, error) {
	u, err := s.createUser(ctx, in, entity.TierFree, false)
	if err != nil {
		return nil, err
	}
	registrationsTotal.Add(1)
	s.Notifier.Welcome(ctx, u)
	s.Audit.Record(ctx, AuditRegister, u.ID, u.Email, meta, nil)
	return s.issue(u)
}

// Login checks credentials. An unknown email and a wrong password produce
// the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string, meta Meta) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.loginFailed(ctx, "", email, meta, "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := s.Hasher.Verify(u.Password, password)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("stored password hash unreadable")
		return nil, err
	}
	if !ok {
		s.loginFailed(ctx, u.ID, email, meta, "wrong password")
		return nil, ErrInvalidCredentials
	}
	loginsTotal.Add(1)
	s.Audit.Record(ctx, AuditLoginSuccess, u.ID, u.Email, meta, nil)
	return s.issue(u)
}

func (s *AuthService) loginFailed(ctx context.Context, userID, email string, meta Meta, reason string) {
	loginFailuresTotal.Add(1)
	s.Logger.WithField("reason", reason).Debug("login rejected")
	s.Audit.Record(ctx, AuditLoginFailed, userID, email, meta, map[string]any{"reason": reason})
}

// ResolvePrincipal maps a token subject to the current principal, reading
// through the cache when one is configured.
func (s *AuthService) ResolvePrincipal(ctx context.Context, email string) (*entity.Principal, error) {
	if s.Cache != nil {
		p, ok, err := s.Cache.Get(ctx, email)
		if err != nil {
			s.Logger.WithError(err).Warn("principal cache read failed")
		} else if ok && p.Email == email {
			return p, nil
		}
	}
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	p := u.Principal()
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, p); err != nil {
			s.Logger.WithError(err).Warn("principal cache write failed")
		}
	}
	return &p, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*UserView, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	v := NewUserView(u, s.now())
	return &v, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*UserView, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.ContactNumber != nil {
		u.ContactNumber = strings.TrimSpace(*in.ContactNumber)
	}
	if in.Position != nil {
		u.Position = strings.TrimSpace(*in.Position)
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.invalidate(ctx, u.Email)
	s.index(ctx, u)
	v := NewUserView(u, s.now())
	return &v, nil
}

// ChangePassword requires the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string, meta Meta) error {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := s.Hasher.Verify(u.Password, current)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("stored password hash unreadable")
		return err
	}
	if !ok {
		return ErrPasswordMismatch
	}
	hash, err := s.hashPassword(next)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.Notifier.PasswordChanged(ctx, u, meta, s.now())
	s.Audit.Record(ctx, AuditPasswordChange, u.ID, u.Email, meta, nil)
	return nil
}

// EnsureInitialAdmin creates the bootstrap admin when no user holds email.
// An existing user with that email is left untouched. It is safe to run on
// every start.
func (s *AuthService) EnsureInitialAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, errors.New("admin email is empty")
	}
	existing, err := s.Repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.IsAdmin {
			s.Logger.WithField("email", email).Warn("initial admin email belongs to a non-admin user")
		}
		return false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return false, err
	}
	if password == "" {
		return false, errors.New("admin password is empty")
	}
	_, err = s.createUser(ctx, RegisterInput{Email: email, Password: password, Name: name}, entity.TierFree, true)
	if errors.Is(err, ErrEmailTaken) {
		// Another instance won the race.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.Logger.WithField("email", email).Info("initial admin created")
	return true, nil
}

func (s *AuthService) hashPassword(plain string) (string, error) {
	hash, err := s.Hasher.Hash(plain)
	if err != nil {
		if errors.Is(err, helpers.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput, tier entity.Tier, isAdmin bool) (*entity.User, error) {
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:        strings.TrimSpace(in.Email),
		Password:     hash,
		Name:         strings.TrimSpace(in.Name),
		IsAdmin:      isAdmin,
		Subscription: entity.NewSubscription("", tier, s.now()),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	if !isAdmin {
		s.index(ctx, u)
	}
	return u, nil
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.JWT.GenerateToken(u.ID, u.Email, u.Name, u.IsAdmin)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("sign token failed")
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: NewUserView(u, s.now())}, nil
}

func (s *AuthService) getUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) invalidate(ctx context.Context, email string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, email); err != nil {
		s.Logger.WithError(err).Warn("principal cache invalidate failed")
	}
}

func (s *AuthService) index(ctx context.Context, u *entity.User) {
	if s.Index == nil || u.IsAdmin {
		return
	}
	if err := s.Index.Index(ctx, tenantDoc(u)); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("tenant index update failed")
	}
}
