package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/todo-tenant-api/internal/interface/http"
	"github.com/oksasatya/todo-tenant-api/internal/interface/middleware"
)

// AdminModule wires tenant management. Every route requires an admin.
type AdminModule struct {
	Handler *handlers.TenantHandler
}

func NewAdminModule(h *handlers.TenantHandler) *AdminModule {
	return &AdminModule{Handler: h}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/tenants", m.Handler.List)
		admin.POST("/tenants", m.Handler.Create)
		admin.GET("/tenants/search", m.Handler.Search)
		admin.PUT("/tenants/:id/subscription", m.Handler.ChangeSubscription)
		admin.DELETE("/tenants/:id", m.Handler.Delete)
	}
}
