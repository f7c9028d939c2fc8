package application

import "errors"

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrTodoNotFound         = errors.New("todo not found")
	ErrUnauthorized         = errors.New("authentication required")
	ErrForbidden            = errors.New("forbidden")
	ErrCannotDeleteAdmin    = errors.New("admin accounts cannot be deleted")
	ErrInvalidTier          = errors.New("invalid subscription tier")
	ErrInvalidPriority      = errors.New("invalid priority")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrPasswordMismatch     = errors.New("current password is incorrect")
	ErrPasswordTooLong      = errors.New("password must be at most 72 bytes")
	ErrSubscriptionInactive = errors.New("subscription is not active")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrStorageDisabled      = errors.New("image storage is not configured")
	ErrImageTooLarge        = errors.New("image too large")
	ErrInvalidImage         = errors.New("file is not an image")
)
