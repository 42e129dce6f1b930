package availability

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/apperr"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/db"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

func ptr[T any](v T) *T { return &v }

// 2025-04-14 is a Monday.
func monday(h, m int) time.Time {
	return time.Date(2025, 4, 14, h, m, 0, 0, time.UTC)
}

type fixture struct {
	store *db.MemoryStore
	svc   *Service
	field model.Field
	user  model.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := db.NewMemoryStore()
	return fixture{
		store: store,
		svc:   NewService(store, time.UTC, 30*time.Minute),
		field: store.AddField(model.Field{Code: "f-1", Name: "Center Court", BrandID: 1, Status: model.StatusActive}),
		user:  store.AddUser(model.User{Email: "p@example.com", Role: model.RoleConsumer}),
	}
}

func (f fixture) addRule(t *testing.T, r model.ScheduleRule) model.ScheduleRule {
	t.Helper()
	r.FieldID = f.field.ID
	r.Status = model.StatusActive
	if r.RecurrenceType == "" {
		r.RecurrenceType = model.RecurrenceWeekly
	}
	created, err := f.store.InsertRule(context.Background(), r)
	require.NoError(t, err)
	return created
}

func (f fixture) book(t *testing.T, start, end time.Time) {
	t.Helper()
	_, err := f.store.InsertBooking(context.Background(), model.Booking{
		Code: uuid.NewString(), UserID: f.user.ID, FieldID: f.field.ID,
		StartTime: start, EndTime: end, Status: model.BookingConfirmed,
	})
	require.NoError(t, err)
}

func mondayRule() model.ScheduleRule {
	return model.ScheduleRule{
		DayOfWeek:   model.Monday,
		OpenTime:    model.Clock(9, 0, 0),
		CloseTime:   model.Clock(22, 0, 0),
		IsAvailable: true,
	}
}

func TestCheckAvailabilityOpenSlot(t *testing.T) {
	f := newFixture(t)
	rule := mondayRule()
	rule.SpecialPrice = ptr(50.0)
	f.addRule(t, rule)

	res, err := f.svc.CheckAvailability(context.Background(), f.field.ID, monday(10, 0))
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Empty(t, res.Reason)
	assert.Equal(t, 50.0, *res.Price)
	assert.Equal(t, -1, res.Window.BlockIndex)
}

func TestCheckAvailabilityBookedInstant(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, mondayRule())
	f.book(t, monday(10, 0), monday(11, 0))
	ctx := context.Background()

	res, err := f.svc.CheckAvailability(ctx, f.field.ID, monday(10, 30))
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, SlotAlreadyBooked, res.Reason)

	// the point check includes the booking's end instant
	res, err = f.svc.CheckAvailability(ctx, f.field.ID, monday(11, 0))
	require.NoError(t, err)
	assert.Equal(t, SlotAlreadyBooked, res.Reason)

	res, err = f.svc.CheckAvailability(ctx, f.field.ID, monday(11, 1))
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestCheckAvailabilityReasons(t *testing.T) {
	ctx := context.Background()

	t.Run("no rules", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.svc.CheckAvailability(ctx, f.field.ID, monday(10, 0))
		require.NoError(t, err)
		assert.Equal(t, NoScheduleForField, res.Reason)
	})

	t.Run("rules on another weekday", func(t *testing.T) {
		f := newFixture(t)
		rule := mondayRule()
		rule.DayOfWeek = model.Tuesday
		f.addRule(t, rule)
		res, err := f.svc.CheckAvailability(ctx, f.field.ID, monday(10, 0))
		require.NoError(t, err)
		assert.Equal(t, NoScheduleForField, res.Reason)
	})

	t.Run("rule does not recur on date", func(t *testing.T) {
		f := newFixture(t)
		rule := mondayRule()
		rule.RecurrenceType = model.RecurrenceMonthly
		rule.RecurrenceConfig = &model.RecurrenceConfig{MonthlyDays: []int{1}}
		f.addRule(t, rule)
		res, err := f.svc.CheckAvailability(ctx, f.field.ID, monday(10, 0))
		require.NoError(t, err)
		assert.Equal(t, NoScheduleForTime, res.Reason)
	})

	t.Run("outside every block", func(t *testing.T) {
		f := newFixture(t)
		rule := mondayRule()
		rule.TimeBlocks = model.TimeBlocks{{StartTime: model.Clock(18, 0, 0), EndTime: model.Clock(22, 0, 0)}}
		f.addRule(t, rule)
		res, err := f.svc.CheckAvailability(ctx, f.field.ID, monday(10, 0))
		require.NoError(t, err)
		assert.Equal(t, NoAvailableBlock, res.Reason)
	})

	t.Run("unavailable rule is ignored", func(t *testing.T) {
		f := newFixture(t)
		rule := mondayRule()
		rule.IsAvailable = false
		f.addRule(t, rule)
		res, err := f.svc.CheckAvailability(ctx, f.field.ID, monday(10, 0))
		require.NoError(t, err)
		assert.Equal(t, NoScheduleForField, res.Reason)
	})

	t.Run("inactive field", func(t *testing.T) {
		f := newFixture(t)
		f.addRule(t, mondayRule())
		require.NoError(t, f.store.DeactivateField(ctx, f.field.ID, 1))
		res, err := f.svc.CheckAvailability(ctx, f.field.ID, monday(10, 0))
		require.NoError(t, err)
		assert.False(t, res.Available)
		assert.Equal(t, NoScheduleForField, res.Reason)
	})

	t.Run("unknown field", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CheckAvailability(ctx, f.field.ID+100, monday(10, 0))
		assert.ErrorIs(t, err, apperr.FieldNotFound)
	})
}

func TestCheckAvailabilityCloseTimeIsInclusive(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, mondayRule())

	res, err := f.svc.CheckAvailability(context.Background(), f.field.ID, monday(22, 0))
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestCheckAvailabilityFirstApplicableRuleWins(t *testing.T) {
	f := newFixture(t)
	skipped := mondayRule()
	skipped.RecurrenceType = model.RecurrenceMonthly
	skipped.RecurrenceConfig = &model.RecurrenceConfig{MonthlyDays: []int{1}}
	skipped.SpecialPrice = ptr(10.0)
	f.addRule(t, skipped)

	first := mondayRule()
	first.SpecialPrice = ptr(20.0)
	want := f.addRule(t, first)

	second := mondayRule()
	second.SpecialPrice = ptr(30.0)
	f.addRule(t, second)

	res, err := f.svc.CheckAvailability(context.Background(), f.field.ID, monday(12, 0))
	require.NoError(t, err)
	assert.Equal(t, want.ID, res.Rule.ID)
	assert.Equal(t, 20.0, *res.Price)
}

func TestCheckAvailabilityUsesFacilityTimezone(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, mondayRule())
	loc := time.FixedZone("UTC+3", 3*3600)
	svc := NewService(f.store, loc, 30*time.Minute)

	// 07:30 UTC is 10:30 local
	res, err := svc.CheckAvailability(context.Background(), f.field.ID, monday(7, 30))
	require.NoError(t, err)
	assert.True(t, res.Available)

	// 05:30 UTC is 08:30 local, before opening
	res, err = svc.CheckAvailability(context.Background(), f.field.ID, monday(5, 30))
	require.NoError(t, err)
	assert.Equal(t, NoAvailableBlock, res.Reason)
}

func TestListAvailableSlots(t *testing.T) {
	f := newFixture(t)
	rule := mondayRule()
	rule.CloseTime = model.Clock(12, 0, 0)
	f.addRule(t, rule)
	f.book(t, monday(10, 0), monday(11, 0))

	slots, err := f.svc.ListAvailableSlots(context.Background(), f.field.ID, model.DateOf(monday(0, 0)))
	require.NoError(t, err)
	require.Len(t, slots, 6)

	want := map[string]bool{
		"09:00": true, "09:30": true,
		"10:00": false, "10:30": false,
		"11:00": true, "11:30": true,
	}
	for i, slot := range slots {
		key := slot.Start.Format("15:04")
		assert.Equal(t, want[key], slot.Available, key)
		assert.Equal(t, 30*time.Minute, slot.End.Sub(slot.Start))
		if i > 0 {
			assert.True(t, slots[i-1].Start.Before(slot.Start))
		}
	}
}

func TestListAvailableSlotsWithOverlappingBlocks(t *testing.T) {
	f := newFixture(t)
	rule := mondayRule()
	rule.SpecialPrice = ptr(30.0)
	rule.TimeBlocks = model.TimeBlocks{
		{StartTime: model.Clock(9, 0, 0), EndTime: model.Clock(12, 0, 0), Price: ptr(40.0)},
		{StartTime: model.Clock(11, 0, 0), EndTime: model.Clock(14, 0, 0)},
	}
	f.addRule(t, rule)

	slots, err := f.svc.ListAvailableSlots(context.Background(), f.field.ID, model.DateOf(monday(0, 0)))
	require.NoError(t, err)
	require.Len(t, slots, 10)
	assert.Equal(t, monday(9, 0), slots[0].Start)
	assert.Equal(t, monday(13, 30), slots[9].Start)

	for _, slot := range slots {
		switch {
		case slot.Start.Before(monday(12, 0)):
			assert.Equal(t, 40.0, *slot.Price, slot.Start.String())
		default:
			assert.Equal(t, 30.0, *slot.Price, slot.Start.String())
		}
	}
}

func TestListAvailableSlotsEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slots, err := f.svc.ListAvailableSlots(ctx, f.field.ID, model.DateOf(monday(0, 0)))
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)

	_, err = f.svc.ListAvailableSlots(ctx, f.field.ID+100, model.DateOf(monday(0, 0)))
	assert.ErrorIs(t, err, apperr.FieldNotFound)
}

func TestListAvailableSlotsAcrossDSTChange(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	f := newFixture(t)
	f.addRule(t, model.ScheduleRule{
		DayOfWeek:   model.Sunday,
		OpenTime:    model.Clock(9, 0, 0),
		CloseTime:   model.Clock(11, 0, 0),
		IsAvailable: true,
	})
	svc := NewService(f.store, berlin, time.Hour)
	ctx := context.Background()

	// clocks go forward at 02:00 on 2025-03-30
	slots, err := svc.ListAvailableSlots(ctx, f.field.ID, model.Date{Year: 2025, Month: time.March, Day: 30})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2025, 3, 30, 9, 0, 0, 0, berlin), slots[0].Start)
	assert.Equal(t, time.Date(2025, 3, 30, 11, 0, 0, 0, berlin), slots[1].End)

	for _, slot := range slots {
		res, err := svc.CheckAvailability(ctx, f.field.ID, slot.Start.Add(30*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, slot.Available, res.Available, slot.Start.String())
	}
}

func TestCheckAvailabilityAnchorsRecurrenceInFacilityTimezone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	f := newFixture(t)
	rule := mondayRule()
	rule.RecurrenceType = model.RecurrenceDaily
	rule.RecurrenceConfig = &model.RecurrenceConfig{Interval: ptr(7)}
	// Monday 21:00 in New York
	rule.CreatedAt = time.Date(2025, 4, 8, 1, 0, 0, 0, time.UTC)
	f.addRule(t, rule)
	svc := NewService(f.store, ny, 30*time.Minute)

	for _, day := range []int{14, 21, 28} {
		res, err := svc.CheckAvailability(context.Background(), f.field.ID, time.Date(2025, 4, day, 10, 0, 0, 0, ny))
		require.NoError(t, err)
		assert.True(t, res.Available, "2025-04-%d", day)
	}
}
