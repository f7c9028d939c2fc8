package application

import (
	"context"
	"io"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
)

// Meta carries request facts recorded alongside auth events.
type Meta struct {
	IP        string
	UserAgent string
}

// PrincipalCache keeps resolved principals keyed by email.
type PrincipalCache interface {
	Get(ctx context.Context, email string) (*entity.Principal, bool, error)
	Set(ctx context.Context, p entity.Principal) error
	Invalidate(ctx context.Context, email string) error
}

// TenantDoc is the searchable projection of a tenant.
type TenantDoc struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Tier  entity.Tier `json:"tier"`
}

// TenantIndex is the full-text index behind admin tenant search.
type TenantIndex interface {
	Index(ctx context.Context, doc TenantDoc) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int) ([]TenantDoc, error)
}

// ImageStore persists uploaded todo images and returns their public URL.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

// JobPublisher enqueues a JSON message.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
