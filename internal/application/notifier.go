package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/pkg/mailer"
	mailtpl "github.com/oksasatya/todo-tenant-api/pkg/mailer/templates"
)

// Notifier queues account emails. A nil Notifier or publisher drops them.
// Publish failures are logged and never surface to the caller.
type Notifier struct {
	Pub      JobPublisher
	Defaults mailtpl.Defaults
	Logger   *logrus.Logger
}

func NewNotifier(pub JobPublisher, defaults mailtpl.Defaults, logger *logrus.Logger) *Notifier {
	return &Notifier{Pub: pub, Defaults: defaults, Logger: logger}
}

func (n *Notifier) Welcome(ctx context.Context, u *entity.User) {
	if n == nil {
		return
	}
	n.publish(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(n.Defaults, u.Name, u.Email),
	})
}

func (n *Notifier) SubscriptionChanged(ctx context.Context, u *entity.User, s *entity.Subscription) {
	if n == nil {
		return
	}
	n.publish(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.SubscriptionChanged,
		Data:     mailtpl.NewSubscriptionChangedData(n.Defaults, u.Name, u.Email, string(s.Tier), s.StartDate, s.EndDate),
	})
}

func (n *Notifier) PasswordChanged(ctx context.Context, u *entity.User, meta Meta, at time.Time) {
	if n == nil {
		return
	}
	n.publish(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.PasswordChanged,
		Data: mailtpl.NewPasswordChangedData(n.Defaults, u.Name, u.Email,
			mailtpl.WithIP(meta.IP), mailtpl.WithUserAgent(meta.UserAgent), mailtpl.WithTime(at)),
	})
}

func (n *Notifier) publish(ctx context.Context, job mailer.EmailJob) {
	if n.Pub == nil {
		return
	}
	if err := n.Pub.PublishJSON(ctx, job); err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithField("template", job.Template).Warn("enqueue email failed")
	}
}
