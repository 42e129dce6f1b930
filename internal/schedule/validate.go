package schedule

import (
	"github.com/Nixie-Tech-LLC/fieldbook/internal/apperr"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

// ValidateRule checks the structural invariants enforced when a rule is written.
func ValidateRule(rule model.ScheduleRule) error {
	if !rule.DayOfWeek.Valid() {
		return apperr.InvalidInput.With("invalid day of week %q", rule.DayOfWeek)
	}
	if !rule.OpenTime.Valid() || !rule.CloseTime.Valid() || rule.OpenTime >= rule.CloseTime {
		return apperr.InvalidTimeWindow
	}
	if err := ValidateTimeBlocks(rule.OpenTime, rule.CloseTime, rule.TimeBlocks); err != nil {
		return err
	}
	return ValidateRecurrence(rule.RecurrenceType, rule.RecurrenceConfig)
}

// ValidateTimeBlocks requires every block to be non-empty and inside
// [open, close]. Blocks may overlap each other.
func ValidateTimeBlocks(openAt, closeAt model.ClockTime, blocks []model.TimeBlock) error {
	for i, b := range blocks {
		if b.StartTime >= b.EndTime {
			return apperr.InvalidTimeBlocks.With("time block %d: start %s is not before end %s", i, b.StartTime, b.EndTime)
		}
		if b.StartTime < openAt || b.EndTime > closeAt {
			return apperr.InvalidTimeBlocks.With("time block %d: %s-%s is outside %s-%s", i, b.StartTime, b.EndTime, openAt, closeAt)
		}
		if b.Capacity != nil && *b.Capacity < 0 {
			return apperr.InvalidTimeBlocks.With("time block %d: negative capacity", i)
		}
	}
	return nil
}

// ValidateRecurrence checks cfg against the declared recurrence type. Weekly
// rules need no configuration and anything supplied is ignored.
func ValidateRecurrence(t model.RecurrenceType, cfg *model.RecurrenceConfig) error {
	if !t.Valid() {
		return apperr.InvalidRecurrenceConfig.With("unknown recurrence type %q", t)
	}
	if t == model.RecurrenceWeekly {
		return nil
	}

	switch t {
	case model.RecurrenceDaily:
		if cfg == nil || cfg.Interval == nil {
			return apperr.InvalidRecurrenceConfig.With("daily recurrence requires an interval")
		}
	case model.RecurrenceMonthly:
		if cfg == nil || len(cfg.MonthlyDays) == 0 {
			return apperr.InvalidRecurrenceConfig.With("monthly recurrence requires monthlyDays")
		}
	}
	if cfg == nil {
		return nil
	}

	if cfg.Interval != nil && *cfg.Interval < 1 {
		return apperr.InvalidRecurrenceConfig.With("interval must be at least 1")
	}
	for _, d := range cfg.MonthlyDays {
		if d < 1 || d > 31 {
			return apperr.InvalidRecurrenceConfig.With("monthly day %d is outside 1-31", d)
		}
	}
	for _, d := range cfg.DaysOfWeek {
		if !d.Valid() {
			return apperr.InvalidRecurrenceConfig.With("invalid day of week %q", d)
		}
	}
	return nil
}
