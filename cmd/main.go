package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/config"
	"github.com/oksasatya/todo-tenant-api/internal/application"
	"github.com/oksasatya/todo-tenant-api/internal/container"
	pginfra "github.com/oksasatya/todo-tenant-api/internal/infrastructure/postgres"
	"github.com/oksasatya/todo-tenant-api/internal/infrastructure/storage"
	"github.com/oksasatya/todo-tenant-api/internal/interface/middleware"
	"github.com/oksasatya/todo-tenant-api/internal/router"
	"github.com/oksasatya/todo-tenant-api/pkg/helpers"
	"github.com/oksasatya/todo-tenant-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Postgres pool + migrations
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// Token service and hasher; a bad signing key stops startup
	jwtManager, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		logger.WithError(err).Fatal("invalid JWT_SECRET")
	}
	hasher := helpers.NewPasswordHasher(cfg.BcryptCost)
	logger.WithField("token_ttl", jwtManager.TTL().String()).Info("token service ready")

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	container.SetJWT(jwtManager)
	container.SetHasher(hasher)

	// Notification queue
	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; account emails disabled")
		} else {
			pub.AppID = cfg.AppName
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	// Tenant search
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; tenant search disabled")
		} else {
			container.SetES(es)
		}
	}

	// Todo image storage
	closeStore, err := setupImageStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to init image storage")
	}
	defer closeStore()

	services := router.BuildServices()
	if cfg.AdminPassword != "" {
		created, err := services.Auth.EnsureInitialAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
		if err != nil {
			logger.WithError(err).Fatal("failed to bootstrap admin")
		}
		if created {
			logger.WithField("email", cfg.AdminEmail).Info("initial admin created")
		}
	} else {
		logger.Warn("ADMIN_PASSWORD not set; skipping admin bootstrap")
	}

	// Gin engine and global middleware
	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", cfg.AuthHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, services)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	logger.Info("server exited properly")
}

// setupImageStore registers the configured image store and returns its
// cleanup function.
func setupImageStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (func(), error) {
	var store application.ImageStore
	cleanup := func() {}

	switch cfg.StorageDriver {
	case "gcs":
		if cfg.GCSBucket == "" {
			return cleanup, errors.New("GCS_BUCKET is required for STORAGE_DRIVER=gcs")
		}
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return cleanup, err
		}
		cleanup = func() { _ = client.Close() }
		store = storage.NewGCSStore(client, cfg.GCSBucket)
	case "s3":
		s3cfg := storage.S3Config{
			Bucket:      cfg.S3Bucket,
			Region:      cfg.S3Region,
			Endpoint:    cfg.S3Endpoint,
			AccessKeyID: cfg.S3AccessKeyID,
			SecretKey:   cfg.S3SecretAccessKey,
			BaseURL:     cfg.S3PublicBaseURL,
		}
		client, err := storage.NewS3Client(ctx, s3cfg)
		if err != nil {
			return cleanup, err
		}
		s, err := storage.NewS3Store(client, s3cfg)
		if err != nil {
			return cleanup, err
		}
		store = s
	default:
		logger.Info("image storage disabled")
		return cleanup, nil
	}

	container.SetImageStore(store)
	logger.WithField("driver", cfg.StorageDriver).Info("image storage ready")
	return cleanup, nil
}
