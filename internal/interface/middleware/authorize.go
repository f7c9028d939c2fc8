package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/todo-tenant-api/internal/application"
	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/pkg/response"
)

// RequireAuth rejects anonymous callers with 401.
func RequireAuth() gin.HandlerFunc {
	return guard(application.RequireAuthenticated)
}

// RequireAdmin rejects anonymous callers with 401 and non-admins with 403.
func RequireAdmin() gin.HandlerFunc {
	return guard(application.RequireAdmin)
}

func guard(check func(p *entity.Principal) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := check(CurrentPrincipal(c))
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, application.ErrUnauthorized):
			response.Abort(c, http.StatusUnauthorized, "authentication required", nil)
		default:
			response.Abort(c, http.StatusForbidden, "forbidden", nil)
		}
	}
}
