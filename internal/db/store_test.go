package db

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

func ptr[T any](v T) *T { return &v }

var monday = time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time { return monday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

func newBooking(fieldID, userID int, start, end time.Time, status model.BookingStatus) model.Booking {
	return model.Booking{
		Code:      uuid.NewString(),
		UserID:    userID,
		FieldID:   fieldID,
		StartTime: start,
		EndTime:   end,
		Status:    status,
		Duration:  int(end.Sub(start).Minutes()),
		CreatedBy: userID,
	}
}

// runStoreContract exercises behavior every Store must share. fieldID and
// userID must already exist.
func runStoreContract(t *testing.T, s Store, fieldID, userID int) {
	ctx := context.Background()

	t.Run("rule round trip", func(t *testing.T) {
		in := model.ScheduleRule{
			Code:           uuid.NewString(),
			FieldID:        fieldID,
			DayOfWeek:      model.Monday,
			OpenTime:       model.Clock(9, 0, 0),
			CloseTime:      model.Clock(24, 0, 0),
			IsAvailable:    true,
			SpecialPrice:   ptr(45.5),
			ZoneName:       ptr("north"),
			ZoneConfig:     &model.ZoneConfig{Capacity: ptr(12), Amenities: []string{"lights"}},
			RecurrenceType: model.RecurrenceCustom,
			RecurrenceConfig: &model.RecurrenceConfig{
				DaysOfWeek: []model.DayOfWeek{model.Monday},
				Exceptions: []model.Date{{Year: 2025, Month: time.May, Day: 5}},
			},
			TimeBlocks: model.TimeBlocks{
				{StartTime: model.Clock(18, 0, 0), EndTime: model.Clock(24, 0, 0), Price: ptr(90.0)},
			},
			Status:    model.StatusActive,
			CreatedBy: userID,
		}
		created, err := s.InsertRule(ctx, in)
		require.NoError(t, err)
		require.NotZero(t, created.ID)

		got, err := s.GetRule(ctx, fieldID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, in.DayOfWeek, got.DayOfWeek)
		assert.Equal(t, in.OpenTime, got.OpenTime)
		assert.Equal(t, in.CloseTime, got.CloseTime)
		assert.Equal(t, in.SpecialPrice, got.SpecialPrice)
		assert.Equal(t, in.ZoneName, got.ZoneName)
		assert.Equal(t, in.ZoneConfig, got.ZoneConfig)
		assert.Equal(t, in.RecurrenceConfig, got.RecurrenceConfig)
		assert.Equal(t, in.TimeBlocks, got.TimeBlocks)

		byDay, err := s.ListActiveRulesByDay(ctx, fieldID, model.Monday)
		require.NoError(t, err)
		assert.NotEmpty(t, byDay)

		require.NoError(t, s.SetRuleStatus(ctx, fieldID, created.ID, model.StatusInactive, userID))
		all, err := s.ListRulesByField(ctx, fieldID)
		require.NoError(t, err)
		for _, r := range all {
			assert.NotEqual(t, created.ID, r.ID)
		}

		_, err = s.GetRule(ctx, fieldID+1000, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("confirmed bookings cannot overlap", func(t *testing.T) {
		_, err := s.InsertBooking(ctx, newBooking(fieldID, userID, at(10, 0), at(11, 0), model.BookingConfirmed))
		require.NoError(t, err)

		_, err = s.InsertBooking(ctx, newBooking(fieldID, userID, at(10, 30), at(11, 30), model.BookingConfirmed))
		assert.ErrorIs(t, err, ErrOverlap)

		// touching intervals are fine
		_, err = s.InsertBooking(ctx, newBooking(fieldID, userID, at(11, 0), at(12, 0), model.BookingConfirmed))
		require.NoError(t, err)

		// pending bookings are not constrained
		pending, err := s.InsertBooking(ctx, newBooking(fieldID, userID, at(10, 15), at(10, 45), model.BookingPending))
		require.NoError(t, err)

		_, err = s.UpdateBookingStatus(ctx, pending.ID, model.BookingConfirmed, userID)
		assert.ErrorIs(t, err, ErrOverlap)

		overlapping, err := s.FindConfirmedOverlapping(ctx, fieldID, at(10, 15), at(10, 45), pending.ID)
		require.NoError(t, err)
		assert.Len(t, overlapping, 1)

		containing, err := s.FindConfirmedContaining(ctx, fieldID, at(11, 0))
		require.NoError(t, err)
		assert.Len(t, containing, 2, "point check is inclusive at both ends")
	})

	t.Run("cancelled booking frees the slot", func(t *testing.T) {
		b, err := s.InsertBooking(ctx, newBooking(fieldID, userID, at(14, 0), at(15, 0), model.BookingConfirmed))
		require.NoError(t, err)
		cancelled, err := s.UpdateBookingStatus(ctx, b.ID, model.BookingCancelled, userID)
		require.NoError(t, err)
		assert.Equal(t, model.BookingCancelled, cancelled.Status)
		assert.Equal(t, userID, *cancelled.UpdatedBy)

		_, err = s.InsertBooking(ctx, newBooking(fieldID, userID, at(14, 0), at(15, 0), model.BookingConfirmed))
		assert.NoError(t, err)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		var inserted model.Booking
		err := s.WithTx(ctx, func(tx Store) error {
			var err error
			inserted, err = tx.InsertBooking(ctx, newBooking(fieldID, userID, at(18, 0), at(19, 0), model.BookingConfirmed))
			if err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = s.GetBooking(ctx, inserted.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent inserts admit one", func(t *testing.T) {
		var wg sync.WaitGroup
		results := make([]error, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, results[i] = s.InsertBooking(ctx, newBooking(fieldID, userID, at(20, 0), at(21, 0), model.BookingConfirmed))
			}(i)
		}
		wg.Wait()

		ok := 0
		for _, err := range results {
			if err == nil {
				ok++
			} else {
				assert.ErrorIs(t, err, ErrOverlap)
			}
		}
		assert.Equal(t, 1, ok)
	})
}
