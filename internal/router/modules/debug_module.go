package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/todo-tenant-api/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar counters, admin only
	rg.GET("/debug/vars", middleware.RequireAdmin(), gin.WrapH(expvar.Handler()))
}
