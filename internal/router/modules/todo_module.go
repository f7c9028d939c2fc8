package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/todo-tenant-api/internal/interface/http"
	"github.com/oksasatya/todo-tenant-api/internal/interface/middleware"
)

// TodoModule wires the caller's todo routes. Ownership is enforced by the
// service after the todo is loaded.
type TodoModule struct {
	Handler *handlers.TodoHandler
}

func NewTodoModule(h *handlers.TodoHandler) *TodoModule {
	return &TodoModule{Handler: h}
}

func (m *TodoModule) Register(rg *gin.RouterGroup) {
	todos := rg.Group("/todos")
	todos.Use(middleware.RequireAuth())
	{
		todos.GET("", m.Handler.List)
		todos.POST("", m.Handler.Create)
		todos.GET("/overdue", m.Handler.Overdue)
		todos.PUT("/:id", m.Handler.Update)
		todos.DELETE("/:id", m.Handler.Delete)
		todos.POST("/:id/image", m.Handler.UploadImage)
	}
}
