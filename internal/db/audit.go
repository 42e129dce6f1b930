package db

import (
	"context"
	"fmt"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

func (s *pgStore) InsertAudit(ctx context.Context, e model.AuditEntry) error {
	_, err := s.q.ExecContext(ctx, `
	INSERT INTO audit_logs (code, action, user_id, field_id, details, timestamp)
	VALUES ($1, $2, $3, $4, $5, now());`,
		e.Code, e.Action, e.UserID, e.FieldID, e.Details)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
