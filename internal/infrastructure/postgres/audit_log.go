package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/tokenflow-auth/internal/application"
)

// AuditLog writes audit entries to the audit_logs table.
type AuditLog struct {
	pool *pgxpool.Pool
}

func NewAuditLog(pool *pgxpool.Pool) *AuditLog {
	return &AuditLog{pool: pool}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (a *AuditLog) Record(ctx context.Context, e application.AuditEntry) error {
	if e.Metadata == nil {
		e.Metadata = map[string]any{}
	}
	md, err := json.Marshal(e.Metadata)
	if err != nil {
		return err
	}
	_, err = a.pool.Exec(ctx, `
		INSERT INTO audit_logs (user_id, email, action, ip, user_agent, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, nullable(e.UserID), nullable(e.Email), e.Action, nullable(e.IP), nullable(e.UserAgent), md)
	return err
}

var _ application.AuditLogger = (*AuditLog)(nil)
