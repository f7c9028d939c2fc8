package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/todo-tenant-api/internal/application"
	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
)

const (
	CtxPrincipalKey = "principal"
	CtxRealIPKey    = "real_ip"
	CtxRequestIDKey = "request_id"
)

type principalCtxKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p entity.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (*entity.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(entity.Principal)
	if !ok {
		return nil, false
	}
	return &p, true
}

// CurrentPrincipal returns the authenticated principal of the request, or
// nil for anonymous callers.
func CurrentPrincipal(c *gin.Context) *entity.Principal {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return nil
	}
	p, ok := v.(entity.Principal)
	if !ok {
		return nil
	}
	return &p
}

// RequestMeta collects the request facts recorded in the audit trail.
func RequestMeta(c *gin.Context) application.Meta {
	ip := c.GetString(CtxRealIPKey)
	if ip == "" {
		ip = c.ClientIP()
	}
	return application.Meta{IP: ip, UserAgent: c.Request.UserAgent()}
}
