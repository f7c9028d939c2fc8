package router

import (
	"github.com/oksasatya/todo-tenant-api/internal/application"
	"github.com/oksasatya/todo-tenant-api/internal/container"
	"github.com/oksasatya/todo-tenant-api/internal/infrastructure/cache"
	pginfra "github.com/oksasatya/todo-tenant-api/internal/infrastructure/postgres"
	"github.com/oksasatya/todo-tenant-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/todo-tenant-api/internal/interface/http"
	"github.com/oksasatya/todo-tenant-api/internal/interface/middleware"
	"github.com/oksasatya/todo-tenant-api/internal/router/modules"
	mailtpl "github.com/oksasatya/todo-tenant-api/pkg/mailer/templates"
)

// Services are the application services shared by the HTTP modules.
type Services struct {
	Auth          *application.AuthService
	Subscriptions *application.SubscriptionService
	Tenants       *application.TenantService
	Todos         *application.TodoService
}

// BuildServices constructs the application layer from the container
// singletons. Optional collaborators are attached only when configured.
func BuildServices() *Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	todos := pginfra.NewTodoRepository(pool)
	auditor := application.NewAuditor(pginfra.NewAuditRepository(pool), logger)

	var notifier *application.Notifier
	if pub := container.GetRabbitPub(); pub != nil {
		notifier = application.NewNotifier(pub, mailtpl.Defaults{AppName: cfg.AppName, SupportURL: cfg.SupportURL}, logger)
	}
	var index application.TenantIndex
	if es := container.GetES(); es != nil {
		index = search.NewTenantIndex(es, cfg.ESTenantsIndex)
	}

	auth := application.NewAuthService(users, container.GetHasher(), container.GetJWT(), logger)
	auth.Notifier = notifier
	auth.Audit = auditor
	auth.Index = index
	if rdb := container.GetRedis(); rdb != nil && cfg.IdentityCacheTTL > 0 {
		auth.Cache = cache.NewPrincipalCache(rdb, cfg.IdentityCacheTTL)
	}

	subs := application.NewSubscriptionService(users, logger)
	subs.Notifier = notifier
	subs.Audit = auditor
	subs.Index = index

	tenants := application.NewTenantService(users, auth, subs, logger)
	tenants.Cache = auth.Cache
	tenants.Index = index
	tenants.Audit = auditor

	todoSvc := application.NewTodoService(todos, users, logger)
	todoSvc.Images = container.GetImageStore()
	todoSvc.MaxImageBytes = cfg.MaxImageBytes

	return &Services{Auth: auth, Subscriptions: subs, Tenants: tenants, Todos: todoSvc}
}

// InitModules registers every module and installs the authentication gate
// on /api. Call once during startup, before RegisterAll.
func InitModules(r *Registry, svc *Services) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	var db handlers.Pinger
	if pool := container.GetPGPool(); pool != nil {
		db = pool
	}

	r.Add(
		modules.NewHealthModule(handlers.NewHealthHandler(db, container.GetRedis(), logger)),
		modules.NewUserModule(handlers.NewUserHandler(svc.Auth, logger)),
		modules.NewTodoModule(handlers.NewTodoHandler(svc.Todos, logger, cfg.MaxImageBytes)),
		modules.NewSubscriptionModule(handlers.NewSubscriptionHandler(svc.Subscriptions, logger)),
		modules.NewAdminModule(handlers.NewTenantHandler(svc.Tenants, logger)),
	)
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}

	r.Use(middleware.Authenticate(container.GetJWT(), svc.Auth, middleware.GateConfig{
		Header:      cfg.AuthHeader,
		Prefix:      cfg.AuthTokenPrefix,
		PublicPaths: r.PublicPaths(),
	}, logger))
}
