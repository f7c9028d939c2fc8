package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/pkg/response"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB     Pinger
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewHealthHandler(db Pinger, rdb *redis.Client, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{DB: db, Redis: rdb, Logger: logger}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true
	if h.DB != nil {
		checks["postgres"] = "ok"
		if err := h.DB.Ping(ctx); err != nil {
			h.Logger.WithError(err).Warn("postgres health check failed")
			checks["postgres"] = "down"
			healthy = false
		}
	}
	if h.Redis != nil {
		checks["redis"] = "ok"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			h.Logger.WithError(err).Warn("redis health check failed")
			checks["redis"] = "down"
			healthy = false
		}
	}
	if !healthy {
		response.Fail(c, http.StatusServiceUnavailable, "unhealthy", checks)
		return
	}
	response.OK(c, http.StatusOK, checks, "ok", nil)
}
