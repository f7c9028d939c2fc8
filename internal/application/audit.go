package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/internal/domain/repository"
)

const (
	AuditRegister           = "register"
	AuditLoginSuccess       = "login_success"
	AuditLoginFailed        = "login_failed"
	AuditPasswordChange     = "password_change"
	AuditSubscriptionChange = "subscription_change"
	AuditTenantCreate       = "tenant_create"
	AuditTenantDelete       = "tenant_delete"
)

// Auditor writes auth events to the audit trail. Write failures are logged
// and swallowed. A nil Auditor records nothing.
type Auditor struct {
	Repo   repository.AuditRepository
	Logger *logrus.Logger
}

func NewAuditor(repo repository.AuditRepository, logger *logrus.Logger) *Auditor {
	return &Auditor{Repo: repo, Logger: logger}
}

func (a *Auditor) Record(ctx context.Context, action, userID, email string, meta Meta, md map[string]any) {
	if a == nil || a.Repo == nil {
		return
	}
	err := a.Repo.Insert(ctx, repository.AuditEntry{
		UserID:    userID,
		Email:     email,
		Action:    action,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Metadata:  md,
	})
	if err != nil && a.Logger != nil {
		a.Logger.WithError(err).WithField("action", action).Warn("audit insert failed")
	}
}
