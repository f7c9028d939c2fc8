package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/todo-tenant-api/internal/interface/http"
	"github.com/oksasatya/todo-tenant-api/internal/interface/middleware"
)

// UserModule wires account routes.
// Public: POST /api/users/register, POST /api/users/login
// Protected: GET/PUT /api/users/profile, PUT /api/users/password
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

// PublicPaths lists the routes the authentication gate must skip.
func (m *UserModule) PublicPaths(prefix string) []string {
	return []string{prefix + "/users/register", prefix + "/users/login"}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.POST("/register", m.Handler.Register)
	users.POST("/login", m.Handler.Login)

	auth := users.Group("/")
	auth.Use(middleware.RequireAuth())
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.PUT("/password", m.Handler.ChangePassword)
	}
}
