package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oksasatya/todo-tenant-api/internal/domain/repository"
)

type AuditRepository struct {
	db DB
}

func NewAuditRepository(db DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, e repository.AuditEntry) error {
	var md []byte
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
		md = b
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_logs (user_id, email, action, ip, user_agent, metadata)
		VALUES ($1::uuid, $2, $3, $4, $5, $6)
	`, optText(e.UserID), optText(e.Email), e.Action, optText(e.IP), optText(e.UserAgent), md)
	return err
}

func optText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
