package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

// TIME columns are read as text so 24:00:00 survives the round trip.
const ruleColumns = `
	id, code, field_id, day_of_week,
	open_time::text AS open_time, close_time::text AS close_time,
	is_available, special_price, zone_name, zone_config,
	recurrence_type, recurrence_config, time_blocks,
	status, created_by, created_at, updated_by, updated_at`

func (s *pgStore) ListRulesByField(ctx context.Context, fieldID int) ([]model.ScheduleRule, error) {
	var out []model.ScheduleRule
	query := `SELECT ` + ruleColumns + `
	FROM field_schedules
	WHERE field_id = $1 AND status = $2
	ORDER BY id;`
	if err := sqlx.SelectContext(ctx, s.q, &out, query, fieldID, model.StatusActive); err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return out, nil
}

func (s *pgStore) ListActiveRulesByDay(ctx context.Context, fieldID int, day model.DayOfWeek) ([]model.ScheduleRule, error) {
	var out []model.ScheduleRule
	query := `SELECT ` + ruleColumns + `
	FROM field_schedules
	WHERE field_id = $1 AND day_of_week = $2 AND status = $3 AND is_available
	ORDER BY id;`
	if err := sqlx.SelectContext(ctx, s.q, &out, query, fieldID, day, model.StatusActive); err != nil {
		return nil, fmt.Errorf("list rules by day: %w", err)
	}
	return out, nil
}

// GetRule returns the rule regardless of status so repeat deletes can succeed.
func (s *pgStore) GetRule(ctx context.Context, fieldID, ruleID int) (model.ScheduleRule, error) {
	var r model.ScheduleRule
	query := `SELECT ` + ruleColumns + `
	FROM field_schedules
	WHERE id = $1 AND field_id = $2;`
	if err := sqlx.GetContext(ctx, s.q, &r, query, ruleID, fieldID); err != nil {
		return model.ScheduleRule{}, mapError(err)
	}
	return r, nil
}

func (s *pgStore) InsertRule(ctx context.Context, r model.ScheduleRule) (model.ScheduleRule, error) {
	var out model.ScheduleRule
	query := `
	INSERT INTO field_schedules
	  (code, field_id, day_of_week, open_time, close_time, is_available, special_price,
	   zone_name, zone_config, recurrence_type, recurrence_config, time_blocks,
	   status, created_by, created_at, updated_at)
	VALUES
	  ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
	RETURNING ` + ruleColumns + `;`
	err := sqlx.GetContext(ctx, s.q, &out, query,
		r.Code, r.FieldID, r.DayOfWeek, r.OpenTime, r.CloseTime, r.IsAvailable, r.SpecialPrice,
		r.ZoneName, r.ZoneConfig, r.RecurrenceType, r.RecurrenceConfig, r.TimeBlocks,
		r.Status, r.CreatedBy)
	if err != nil {
		return model.ScheduleRule{}, fmt.Errorf("insert rule: %w", mapError(err))
	}
	return out, nil
}

func (s *pgStore) UpdateRule(ctx context.Context, r model.ScheduleRule) (model.ScheduleRule, error) {
	var out model.ScheduleRule
	query := `
	UPDATE field_schedules
	SET day_of_week = $3,
	    open_time = $4,
	    close_time = $5,
	    is_available = $6,
	    special_price = $7,
	    zone_name = $8,
	    zone_config = $9,
	    recurrence_type = $10,
	    recurrence_config = $11,
	    time_blocks = $12,
	    status = $13,
	    updated_by = $14,
	    updated_at = now()
	WHERE id = $1 AND field_id = $2
	RETURNING ` + ruleColumns + `;`
	err := sqlx.GetContext(ctx, s.q, &out, query,
		r.ID, r.FieldID, r.DayOfWeek, r.OpenTime, r.CloseTime, r.IsAvailable, r.SpecialPrice,
		r.ZoneName, r.ZoneConfig, r.RecurrenceType, r.RecurrenceConfig, r.TimeBlocks,
		r.Status, r.UpdatedBy)
	if err != nil {
		return model.ScheduleRule{}, mapError(err)
	}
	return out, nil
}

func (s *pgStore) SetRuleStatus(ctx context.Context, fieldID, ruleID, status, updatedBy int) error {
	res, err := s.q.ExecContext(ctx, `
	UPDATE field_schedules
	SET status = $3, updated_by = $4, updated_at = now()
	WHERE id = $1 AND field_id = $2;`, ruleID, fieldID, status, updatedBy)
	if err != nil {
		return fmt.Errorf("set rule status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
