package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/todo-tenant-api/internal/interface/http"
	"github.com/oksasatya/todo-tenant-api/internal/interface/middleware"
)

type SubscriptionModule struct {
	Handler *handlers.SubscriptionHandler
}

func NewSubscriptionModule(h *handlers.SubscriptionHandler) *SubscriptionModule {
	return &SubscriptionModule{Handler: h}
}

func (m *SubscriptionModule) Register(rg *gin.RouterGroup) {
	sub := rg.Group("/subscription")
	sub.Use(middleware.RequireAuth())
	{
		sub.GET("/status", m.Handler.Status)
		sub.POST("/upgrade", m.Handler.Upgrade)
	}
}
