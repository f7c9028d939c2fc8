package middleware

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/internal/application"
	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/pkg/helpers"
)

var rejectedTokens = expvar.NewInt("auth_rejected_tokens_total")

type TokenParser interface {
	ParseToken(token string) (*helpers.Claims, error)
}

type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, email string) (*entity.Principal, error)
}

// GateConfig names where the token lives and which paths skip authentication.
type GateConfig struct {
	Header      string
	Prefix      string
	PublicPaths []string
}

// Authenticate establishes the request principal from a bearer token.
// It never rejects: a missing, invalid or unresolvable token leaves the
// request anonymous and the route guards decide. Public paths and CORS
// preflight requests are passed through untouched. A principal already set
// earlier in the chain is kept.
func Authenticate(tokens TokenParser, resolver PrincipalResolver, cfg GateConfig, logger *logrus.Logger) gin.HandlerFunc {
	public := make(map[string]struct{}, len(cfg.PublicPaths))
	for _, p := range cfg.PublicPaths {
		public[p] = struct{}{}
	}
	header := cfg.Header
	if header == "" {
		header = "Authorization"
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if _, ok := public[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		if _, ok := c.Get(CtxPrincipalKey); ok {
			c.Next()
			return
		}

		raw := extractToken(c.GetHeader(header), cfg.Prefix)
		if raw == "" {
			c.Next()
			return
		}

		claims, err := tokens.ParseToken(raw)
		if err != nil {
			rejectedTokens.Add(1)
			if !errors.Is(err, helpers.ErrInvalidToken) {
				logger.WithError(err).Error("token verification failed unexpectedly")
			}
			c.Next()
			return
		}

		p, err := resolver.ResolvePrincipal(c.Request.Context(), claims.Email())
		if err != nil {
			if errors.Is(err, application.ErrUserNotFound) {
				rejectedTokens.Add(1)
				logger.WithField("subject", claims.Email()).Debug("token subject no longer exists")
			} else {
				logger.WithError(err).Warn("resolve principal failed")
			}
			c.Next()
			return
		}

		c.Set(CtxPrincipalKey, *p)
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), *p))
		c.Next()
	}
}

// extractToken strips prefix from the header value. A value without the
// prefix yields no token.
func extractToken(value, prefix string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if prefix != "" {
		if len(value) < len(prefix) || !strings.EqualFold(value[:len(prefix)], prefix) {
			return ""
		}
		value = value[len(prefix):]
	}
	return strings.TrimSpace(value)
}
