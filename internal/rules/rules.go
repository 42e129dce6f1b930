// Package rules manages the schedule rules a field owns.
package rules

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/apperr"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/audit"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/db"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/metrics"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/schedule"
)

// RuleInput carries the writable attributes of a rule. Nil IsAvailable
// defaults to true and an empty RecurrenceType to weekly.
type RuleInput struct {
	DayOfWeek        model.DayOfWeek
	OpenTime         model.ClockTime
	CloseTime        model.ClockTime
	IsAvailable      *bool
	SpecialPrice     *float64
	ZoneName         *string
	ZoneConfig       *model.ZoneConfig
	RecurrenceType   model.RecurrenceType
	RecurrenceConfig *model.RecurrenceConfig
	TimeBlocks       []model.TimeBlock
}

// Clearable names an optional rule attribute a patch can reset to unset.
type Clearable string

const (
	ClearSpecialPrice     Clearable = "special_price"
	ClearZoneName         Clearable = "zone_name"
	ClearZoneConfig       Clearable = "zone_config"
	ClearRecurrenceConfig Clearable = "recurrence_config"
)

// RulePatch replaces only the attributes that are set. A nil field is left
// unchanged; optional attributes listed in Clear are reset before the set
// fields apply. A non-nil empty TimeBlocks removes every block.
type RulePatch struct {
	DayOfWeek        *model.DayOfWeek
	OpenTime         *model.ClockTime
	CloseTime        *model.ClockTime
	IsAvailable      *bool
	SpecialPrice     *float64
	ZoneName         *string
	ZoneConfig       *model.ZoneConfig
	RecurrenceType   *model.RecurrenceType
	RecurrenceConfig *model.RecurrenceConfig
	TimeBlocks       *[]model.TimeBlock
	Clear            []Clearable
}

type Service struct {
	store db.Store
	audit audit.Recorder
}

func NewService(store db.Store, rec audit.Recorder) *Service {
	return &Service{store: store, audit: rec}
}

func (s *Service) AddRule(ctx context.Context, fieldID int, in RuleInput, actorID int) (model.ScheduleRule, error) {
	if _, err := s.store.GetFieldByID(ctx, fieldID); err != nil {
		return model.ScheduleRule{}, notFound(err, apperr.FieldNotFound, "field_id", fieldID)
	}

	rule := model.ScheduleRule{
		Code:             uuid.NewString(),
		FieldID:          fieldID,
		DayOfWeek:        in.DayOfWeek,
		OpenTime:         in.OpenTime,
		CloseTime:        in.CloseTime,
		IsAvailable:      true,
		SpecialPrice:     in.SpecialPrice,
		ZoneName:         in.ZoneName,
		ZoneConfig:       in.ZoneConfig,
		RecurrenceType:   in.RecurrenceType,
		RecurrenceConfig: in.RecurrenceConfig,
		TimeBlocks:       model.TimeBlocks(in.TimeBlocks),
		Status:           model.StatusActive,
		CreatedBy:        actorID,
	}
	if in.IsAvailable != nil {
		rule.IsAvailable = *in.IsAvailable
	}
	if rule.RecurrenceType == "" {
		rule.RecurrenceType = model.RecurrenceWeekly
	}
	if err := schedule.ValidateRule(rule); err != nil {
		return model.ScheduleRule{}, err
	}

	created, err := s.store.InsertRule(ctx, rule)
	if err != nil {
		log.Error().Err(err).Int("field_id", fieldID).Msg("failed to insert schedule rule")
		return model.ScheduleRule{}, apperr.System(err)
	}

	s.record(ctx, model.AuditScheduleCreated, actorID, fieldID, model.AuditDetails{
		"rule_id":     created.ID,
		"day_of_week": created.DayOfWeek,
	})
	return created, nil
}

// UpdateRule applies patch to an active rule. Deleted rules read as missing.
func (s *Service) UpdateRule(ctx context.Context, fieldID, ruleID int, patch RulePatch, actorID int) (model.ScheduleRule, error) {
	rule, err := s.store.GetRule(ctx, fieldID, ruleID)
	if err != nil {
		return model.ScheduleRule{}, notFound(err, apperr.RuleNotFound, "rule_id", ruleID)
	}
	if rule.Status != model.StatusActive {
		return model.ScheduleRule{}, apperr.RuleNotFound
	}

	patch.apply(&rule)
	rule.UpdatedBy = &actorID
	if err := schedule.ValidateRule(rule); err != nil {
		return model.ScheduleRule{}, err
	}

	updated, err := s.store.UpdateRule(ctx, rule)
	if errors.Is(err, db.ErrNotFound) {
		return model.ScheduleRule{}, apperr.RuleNotFound
	}
	if err != nil {
		log.Error().Err(err).Int("rule_id", ruleID).Msg("failed to update schedule rule")
		return model.ScheduleRule{}, apperr.System(err)
	}

	s.record(ctx, model.AuditScheduleUpdated, actorID, fieldID, model.AuditDetails{"rule_id": ruleID})
	return updated, nil
}

// DeleteRule deactivates the rule. Deleting an already deleted rule succeeds.
func (s *Service) DeleteRule(ctx context.Context, fieldID, ruleID, actorID int) error {
	rule, err := s.store.GetRule(ctx, fieldID, ruleID)
	if err != nil {
		return notFound(err, apperr.RuleNotFound, "rule_id", ruleID)
	}
	if rule.Status == model.StatusInactive {
		return nil
	}

	if err := s.store.SetRuleStatus(ctx, fieldID, ruleID, model.StatusInactive, actorID); err != nil {
		return notFound(err, apperr.RuleNotFound, "rule_id", ruleID)
	}

	s.record(ctx, model.AuditScheduleDeleted, actorID, fieldID, model.AuditDetails{"rule_id": ruleID})
	return nil
}

// ListRules returns the field's active rules ordered by weekday, then open
// time.
func (s *Service) ListRules(ctx context.Context, fieldID int) ([]model.ScheduleRule, error) {
	if _, err := s.store.GetFieldByID(ctx, fieldID); err != nil {
		return nil, notFound(err, apperr.FieldNotFound, "field_id", fieldID)
	}

	list, err := s.store.ListRulesByField(ctx, fieldID)
	if err != nil {
		log.Error().Err(err).Int("field_id", fieldID).Msg("failed to list schedule rules")
		return nil, apperr.System(err)
	}
	slices.SortStableFunc(list, func(a, b model.ScheduleRule) int {
		if d := a.DayOfWeek.Index() - b.DayOfWeek.Index(); d != 0 {
			return d
		}
		if d := int(a.OpenTime - b.OpenTime); d != 0 {
			return d
		}
		return a.ID - b.ID
	})
	return list, nil
}

// DeactivateField takes the field and every rule it owns out of service.
func (s *Service) DeactivateField(ctx context.Context, fieldID, actorID int) error {
	if err := s.store.DeactivateField(ctx, fieldID, actorID); err != nil {
		return notFound(err, apperr.FieldNotFound, "field_id", fieldID)
	}
	s.record(ctx, model.AuditFacilityUpdated, actorID, fieldID, model.AuditDetails{"status": model.StatusInactive})
	return nil
}

func (s *Service) record(ctx context.Context, action model.AuditAction, actorID, fieldID int, details model.AuditDetails) {
	if s.audit == nil {
		return
	}
	err := s.audit.RecordEvent(ctx, audit.Event{Action: action, ActorID: actorID, FieldID: &fieldID, Details: details})
	if err != nil {
		log.Warn().Err(err).Str("action", string(action)).Msg("failed to record audit event")
		metrics.IncSideEffectFailure("audit")
	}
}

// notFound maps db.ErrNotFound to want and anything else to a system error.
func notFound(err error, want *apperr.Error, key string, id int) error {
	if errors.Is(err, db.ErrNotFound) {
		return want
	}
	log.Error().Err(err).Int(key, id).Msg("storage lookup failed")
	return apperr.System(err)
}

func (p RulePatch) apply(r *model.ScheduleRule) {
	for _, c := range p.Clear {
		switch c {
		case ClearSpecialPrice:
			r.SpecialPrice = nil
		case ClearZoneName:
			r.ZoneName = nil
		case ClearZoneConfig:
			r.ZoneConfig = nil
		case ClearRecurrenceConfig:
			r.RecurrenceConfig = nil
		}
	}
	if p.DayOfWeek != nil {
		r.DayOfWeek = *p.DayOfWeek
	}
	if p.OpenTime != nil {
		r.OpenTime = *p.OpenTime
	}
	if p.CloseTime != nil {
		r.CloseTime = *p.CloseTime
	}
	if p.IsAvailable != nil {
		r.IsAvailable = *p.IsAvailable
	}
	if p.SpecialPrice != nil {
		r.SpecialPrice = p.SpecialPrice
	}
	if p.ZoneName != nil {
		r.ZoneName = p.ZoneName
	}
	if p.ZoneConfig != nil {
		r.ZoneConfig = p.ZoneConfig
	}
	if p.RecurrenceType != nil {
		r.RecurrenceType = *p.RecurrenceType
	}
	if p.RecurrenceConfig != nil {
		r.RecurrenceConfig = p.RecurrenceConfig
	}
	if p.TimeBlocks != nil {
		r.TimeBlocks = model.TimeBlocks(*p.TimeBlocks)
	}
}
