package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

func (s *pgStore) GetFieldByID(ctx context.Context, id int) (model.Field, error) {
	var f model.Field
	query := `
	SELECT id, code, name, address, brand_id, sport_type, status, created_by, created_at, updated_by, updated_at
	FROM fields
	WHERE id = $1;`
	if err := sqlx.GetContext(ctx, s.q, &f, query, id); err != nil {
		return model.Field{}, mapError(err)
	}
	return f, nil
}

func (s *pgStore) DeactivateField(ctx context.Context, id, updatedBy int) error {
	return s.WithTx(ctx, func(tx Store) error {
		q := tx.(*pgStore).q
		res, err := q.ExecContext(ctx, `
		UPDATE fields
		SET status = $2, updated_by = $3, updated_at = now()
		WHERE id = $1;`, id, model.StatusInactive, updatedBy)
		if err != nil {
			return fmt.Errorf("deactivate field: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotFound
		}

		_, err = q.ExecContext(ctx, `
		UPDATE field_schedules
		SET status = $2, updated_by = $3, updated_at = now()
		WHERE field_id = $1 AND status <> $2;`, id, model.StatusInactive, updatedBy)
		if err != nil {
			return fmt.Errorf("deactivate field schedules: %w", err)
		}
		return nil
	})
}

// FindPricing returns the active price entry whose duration matches exactly.
func (s *pgStore) FindPricing(ctx context.Context, fieldID, durationMinutes int) (model.FieldPricing, error) {
	var p model.FieldPricing
	query := `
	SELECT id, field_id, price, duration_in_minutes, status
	FROM field_pricing
	WHERE field_id = $1 AND duration_in_minutes = $2 AND status = $3
	ORDER BY id
	LIMIT 1;`
	if err := sqlx.GetContext(ctx, s.q, &p, query, fieldID, durationMinutes, model.StatusActive); err != nil {
		return model.FieldPricing{}, mapError(err)
	}
	return p, nil
}
