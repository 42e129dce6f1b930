// Package availability answers whether a field can be booked at an instant
// and lays out a day's bookable slots.
package availability

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/apperr"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/db"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/metrics"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/schedule"
)

type Reason string

const (
	NoScheduleForField Reason = "NO_SCHEDULE_FOR_FIELD"
	NoScheduleForTime  Reason = "NO_SCHEDULE_FOR_TIME"
	NoAvailableBlock   Reason = "NO_AVAILABLE_BLOCK"
	SlotAlreadyBooked  Reason = "SLOT_ALREADY_BOOKED"
)

type Result struct {
	Available bool                `json:"available"`
	Reason    Reason              `json:"reason,omitempty"`
	Rule      *model.ScheduleRule `json:"rule,omitempty"`
	Window    *schedule.Window    `json:"window,omitempty"`
	Price     *float64            `json:"price,omitempty"`
}

type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
	Price     *float64  `json:"price,omitempty"`
}

type Service struct {
	store     db.Store
	loc       *time.Location
	increment time.Duration
}

// NewService interprets rule times in loc and cuts slots of length increment.
func NewService(store db.Store, loc *time.Location, increment time.Duration) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, loc: loc, increment: increment}
}

// CheckAvailability answers for a single instant. Booked means a confirmed
// booking with start <= at <= end.
func (s *Service) CheckAvailability(ctx context.Context, fieldID int, at time.Time) (Result, error) {
	res, err := s.check(ctx, fieldID, at)
	if err == nil {
		label := string(res.Reason)
		if res.Available {
			label = "AVAILABLE"
		}
		metrics.AvailabilityChecks.WithLabelValues(label).Inc()
	}
	return res, err
}

func (s *Service) check(ctx context.Context, fieldID int, at time.Time) (Result, error) {
	local := at.In(s.loc)
	date := model.DateOf(local)

	rules, ok, err := s.rulesFor(ctx, fieldID, date)
	if err != nil {
		return Result{}, err
	}
	if !ok || len(rules) == 0 {
		return Result{Reason: NoScheduleForField}, nil
	}

	rule, ok := firstApplicable(rules, date, s.loc)
	if !ok {
		return Result{Reason: NoScheduleForTime}, nil
	}

	w, ok := schedule.Resolve(rule, model.ClockOf(local))
	if !ok {
		return Result{Reason: NoAvailableBlock, Rule: &rule}, nil
	}

	booked, err := s.store.FindConfirmedContaining(ctx, fieldID, at)
	if err != nil {
		log.Error().Err(err).Int("field_id", fieldID).Msg("failed to look up bookings")
		return Result{}, apperr.System(err)
	}
	if len(booked) > 0 {
		return Result{Reason: SlotAlreadyBooked, Rule: &rule, Window: &w, Price: w.Price}, nil
	}
	return Result{Available: true, Rule: &rule, Window: &w, Price: w.Price}, nil
}

// ListAvailableSlots walks the first applicable rule for date in fixed
// increments. A slot is booked when a confirmed booking covers its midpoint
// rather than when the point check at its start matches: a booking ending
// exactly at a slot's start would otherwise mark both adjacent slots.
// The result is empty when no rule applies.
func (s *Service) ListAvailableSlots(ctx context.Context, fieldID int, date model.Date) ([]Slot, error) {
	rules, ok, err := s.rulesFor(ctx, fieldID, date)
	if err != nil {
		return nil, err
	}
	rule, applies := firstApplicable(rules, date, s.loc)
	if !ok || !applies {
		return []Slot{}, nil
	}

	windows := []schedule.Window{{Start: rule.OpenTime, End: rule.CloseTime, Price: rule.SpecialPrice}}
	if len(rule.TimeBlocks) > 0 {
		windows = windows[:0]
		for _, b := range rule.TimeBlocks {
			price := b.Price
			if price == nil {
				price = rule.SpecialPrice
			}
			windows = append(windows, schedule.Window{Start: b.StartTime, End: b.EndTime, Price: price})
		}
	}

	dayStart := rule.OpenTime.On(date, s.loc)
	dayEnd := rule.CloseTime.On(date, s.loc)
	bookings, err := s.store.ListConfirmedBetween(ctx, fieldID, dayStart, dayEnd)
	if err != nil {
		log.Error().Err(err).Int("field_id", fieldID).Msg("failed to list bookings for day")
		return nil, apperr.System(err)
	}

	seen := map[int64]bool{}
	slots := []Slot{}
	for _, w := range windows {
		end := w.End.On(date, s.loc)
		for start := w.Start.On(date, s.loc); !start.Add(s.increment).After(end); start = start.Add(s.increment) {
			if seen[start.Unix()] {
				continue
			}
			seen[start.Unix()] = true

			slotEnd := start.Add(s.increment)
			mid := start.Add(s.increment / 2)
			slots = append(slots, Slot{
				Start:     start,
				End:       slotEnd,
				Available: !anyContains(bookings, mid),
				Price:     w.Price,
			})
		}
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots, nil
}

// rulesFor loads the active rules for date's weekday. ok is false when the
// field exists but is inactive.
func (s *Service) rulesFor(ctx context.Context, fieldID int, date model.Date) ([]model.ScheduleRule, bool, error) {
	field, err := s.store.GetFieldByID(ctx, fieldID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, false, apperr.FieldNotFound
	}
	if err != nil {
		log.Error().Err(err).Int("field_id", fieldID).Msg("failed to load field")
		return nil, false, apperr.System(err)
	}
	if !field.Active() {
		return nil, false, nil
	}

	rules, err := s.store.ListActiveRulesByDay(ctx, fieldID, model.DayOfWeekOf(date.Weekday()))
	if err != nil {
		log.Error().Err(err).Int("field_id", fieldID).Msg("failed to load schedule rules")
		return nil, false, apperr.System(err)
	}
	return rules, true, nil
}

func firstApplicable(rules []model.ScheduleRule, date model.Date, loc *time.Location) (model.ScheduleRule, bool) {
	for _, r := range rules {
		if schedule.Applies(r, date, loc) {
			return r, true
		}
	}
	return model.ScheduleRule{}, false
}

func anyContains(bookings []model.Booking, at time.Time) bool {
	for _, b := range bookings {
		if b.ContainsInstant(at) {
			return true
		}
	}
	return false
}
