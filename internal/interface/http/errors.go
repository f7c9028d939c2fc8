package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/internal/application"
	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/internal/interface/middleware"
	"github.com/oksasatya/todo-tenant-api/pkg/helpers"
	"github.com/oksasatya/todo-tenant-api/pkg/response"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{application.ErrInvalidCredentials, http.StatusUnauthorized},
	{application.ErrUnauthorized, http.StatusUnauthorized},
	{application.ErrForbidden, http.StatusForbidden},
	{application.ErrSubscriptionInactive, http.StatusForbidden},
	{application.ErrUserNotFound, http.StatusNotFound},
	{application.ErrTodoNotFound, http.StatusNotFound},
	{application.ErrSubscriptionNotFound, http.StatusNotFound},
	{application.ErrCannotDeleteAdmin, http.StatusConflict},
	{application.ErrEmailTaken, http.StatusBadRequest},
	{application.ErrInvalidTier, http.StatusBadRequest},
	{application.ErrInvalidPriority, http.StatusBadRequest},
	{application.ErrInvalidStatus, http.StatusBadRequest},
	{application.ErrPasswordMismatch, http.StatusBadRequest},
	{application.ErrPasswordTooLong, http.StatusBadRequest},
	{application.ErrInvalidImage, http.StatusBadRequest},
	{application.ErrImageTooLarge, http.StatusRequestEntityTooLarge},
	{application.ErrStorageDisabled, http.StatusServiceUnavailable},
}

// statusFor maps a service error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError renders err. Internal failures are logged and replaced by a
// generic message.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(middleware.CtxRequestIDKey),
		})
		response.Fail(c, status, "internal server error", nil)
		return
	}
	response.Fail(c, status, err.Error(), nil)
}

// principal returns the caller. Routes using it sit behind RequireAuth, so
// a missing principal is answered with 401.
func principal(c *gin.Context) (*entity.Principal, bool) {
	p := middleware.CurrentPrincipal(c)
	if p == nil {
		response.Fail(c, http.StatusUnauthorized, application.ErrUnauthorized.Error(), nil)
		return nil, false
	}
	return p, true
}
