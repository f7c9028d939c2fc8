package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/pkg/response"
)

// Recovery turns a panic into a generic 500. Details stay in the log.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.WithFields(logrus.Fields{
					"panic":      rec,
					"path":       c.Request.URL.Path,
					"request_id": c.GetString(CtxRequestIDKey),
					"stack":      string(debug.Stack()),
				}).Error("panic recovered")
				response.Abort(c, http.StatusInternalServerError, "internal server error", nil)
			}
		}()
		c.Next()
	}
}
