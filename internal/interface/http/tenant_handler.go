package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/internal/application"
	"github.com/oksasatya/todo-tenant-api/internal/interface/middleware"
	"github.com/oksasatya/todo-tenant-api/pkg/response"
	"github.com/oksasatya/todo-tenant-api/pkg/validation"
)

// TenantHandler is the admin tenant API. Routes are mounted behind
// middleware.RequireAdmin.
type TenantHandler struct {
	Svc    *application.TenantService
	Logger *logrus.Logger
}

func NewTenantHandler(svc *application.TenantService, logger *logrus.Logger) *TenantHandler {
	return &TenantHandler{Svc: svc, Logger: logger}
}

type createTenantRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required,max=120"`
	Tier     string `json:"tier" binding:"omitempty,tier"`
}

func (h *TenantHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, list, "tenants", map[string]any{"total": len(list)})
}

func (h *TenantHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req createTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, err := h.Svc.Create(c.Request.Context(), *p, application.CreateTenantInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Tier:     req.Tier,
	}, middleware.RequestMeta(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, v, "tenant created", nil)
}

func (h *TenantHandler) ChangeSubscription(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req tierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, err := h.Svc.ChangeSubscription(c.Request.Context(), *p, c.Param("id"), req.Tier, middleware.RequestMeta(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, v, "subscription updated", nil)
}

func (h *TenantHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), *p, c.Param("id"), middleware.RequestMeta(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK[any](c, http.StatusOK, map[string]any{"deleted": true}, "tenant deleted", nil)
}

func (h *TenantHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	docs, err := h.Svc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, docs, "search results", map[string]any{"total": len(docs)})
}
