package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/internal/application"
	"github.com/oksasatya/todo-tenant-api/internal/interface/middleware"
	"github.com/oksasatya/todo-tenant-api/pkg/response"
	"github.com/oksasatya/todo-tenant-api/pkg/validation"
)

// SubscriptionHandler serves the caller's own subscription. The target user
// always comes from the authenticated principal.
type SubscriptionHandler struct {
	Svc    *application.SubscriptionService
	Logger *logrus.Logger
}

func NewSubscriptionHandler(svc *application.SubscriptionService, logger *logrus.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{Svc: svc, Logger: logger}
}

type tierRequest struct {
	Tier string `json:"tier" binding:"required,tier"`
}

func (h *SubscriptionHandler) Status(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	v, err := h.Svc.Status(c.Request.Context(), p.ID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, v, "subscription status", nil)
}

func (h *SubscriptionHandler) Upgrade(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req tierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, err := h.Svc.Upgrade(c.Request.Context(), p.ID, req.Tier, *p, middleware.RequestMeta(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, v, "subscription updated", nil)
}
