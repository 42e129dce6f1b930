package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

func seedMemory() (*MemoryStore, model.Field, model.User) {
	s := NewMemoryStore()
	u := s.AddUser(model.User{Email: "owner@example.com", Role: model.RoleCompany, Status: model.StatusActive})
	f := s.AddField(model.Field{Code: "f-1", Name: "Center Court", BrandID: 1, Status: model.StatusActive, CreatedBy: u.ID})
	return s, f, u
}

func TestMemoryStoreContract(t *testing.T) {
	s, f, u := seedMemory()
	runStoreContract(t, s, f.ID, u.ID)
}

func TestMemoryDeactivateFieldCascades(t *testing.T) {
	ctx := context.Background()
	s, f, u := seedMemory()

	for _, day := range []model.DayOfWeek{model.Monday, model.Tuesday} {
		_, err := s.InsertRule(ctx, model.ScheduleRule{
			FieldID: f.ID, DayOfWeek: day, OpenTime: model.Clock(8, 0, 0), CloseTime: model.Clock(20, 0, 0),
			IsAvailable: true, RecurrenceType: model.RecurrenceWeekly, Status: model.StatusActive,
		})
		require.NoError(t, err)
	}

	require.NoError(t, s.DeactivateField(ctx, f.ID, u.ID))

	got, err := s.GetFieldByID(ctx, f.ID)
	require.NoError(t, err)
	assert.False(t, got.Active())

	rules, err := s.ListRulesByField(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, rules)

	assert.ErrorIs(t, s.DeactivateField(ctx, 9999, u.ID), ErrNotFound)
}

func TestMemoryListBookingsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, f, u := seedMemory()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		b := newBooking(f.ID, u.ID, at(8+i, 0), at(9+i, 0), model.BookingConfirmed)
		b.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err := s.InsertBooking(ctx, b)
		require.NoError(t, err)
	}

	list, err := s.ListBookingsByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))
	assert.True(t, list[1].CreatedAt.After(list[2].CreatedAt))
}

func TestMemoryFindPricingExactDuration(t *testing.T) {
	ctx := context.Background()
	s, f, _ := seedMemory()
	s.AddPricing(model.FieldPricing{FieldID: f.ID, Price: 60, DurationInMinutes: 60, Status: model.StatusActive})
	s.AddPricing(model.FieldPricing{FieldID: f.ID, Price: 100, DurationInMinutes: 120, Status: model.StatusInactive})

	p, err := s.FindPricing(ctx, f.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 60.0, p.Price)

	_, err = s.FindPricing(ctx, f.ID, 120)
	assert.ErrorIs(t, err, ErrNotFound)
}
