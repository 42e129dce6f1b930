// Package schedule decides when a field's schedule rules are in effect and
// which sub-window of a rule covers a given time of day. Everything here is
// pure: no storage, no clock.
package schedule

import (
	"slices"
	"time"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

// Applies reports whether rule is in effect on date, ignoring time of day.
// The rule's weekday must match for every recurrence type; weekly rules need
// nothing else. date is a facility-local day and loc is the facility's
// location, used to anchor daily and biweekly rules on their creation day.
func Applies(rule model.ScheduleRule, date model.Date, loc *time.Location) bool {
	if rule.DayOfWeek != model.DayOfWeekOf(date.Weekday()) {
		return false
	}

	cfg := rule.RecurrenceConfig
	switch rule.RecurrenceType {
	case model.RecurrenceWeekly:
		return true

	case model.RecurrenceDaily:
		if cfg == nil || cfg.Interval == nil || *cfg.Interval < 1 {
			return false
		}
		return absDays(date, rule.CreatedDateIn(loc))%*cfg.Interval == 0

	case model.RecurrenceBiweekly:
		weeks := absDays(date, rule.CreatedDateIn(loc)) / 7
		return weeks%2 == 0

	case model.RecurrenceMonthly:
		if cfg == nil {
			return false
		}
		return slices.Contains(cfg.MonthlyDays, date.Day)

	case model.RecurrenceCustom:
		return appliesCustom(cfg, date)
	}
	return false
}

func appliesCustom(cfg *model.RecurrenceConfig, date model.Date) bool {
	if cfg == nil {
		return true
	}
	if cfg.EndDate != nil && date.After(*cfg.EndDate) {
		return false
	}
	if slices.Contains(cfg.Exceptions, date) {
		return false
	}
	if len(cfg.DaysOfWeek) > 0 {
		return slices.Contains(cfg.DaysOfWeek, model.DayOfWeekOf(date.Weekday()))
	}
	return true
}

// absDays is the whole-day distance between the two dates in either direction.
func absDays(a, b model.Date) int {
	d := a.DaysSince(b)
	if d < 0 {
		return -d
	}
	return d
}
