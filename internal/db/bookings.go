package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

const bookingColumns = `
	id, code, user_id, field_id, start_time, end_time, status,
	amount, duration, total_amount, notes,
	created_by, created_at, updated_by, updated_at`

func (s *pgStore) GetBooking(ctx context.Context, id int) (model.Booking, error) {
	var b model.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1;`
	if err := sqlx.GetContext(ctx, s.q, &b, query, id); err != nil {
		return model.Booking{}, mapError(err)
	}
	return b, nil
}

func (s *pgStore) GetBookingForUpdate(ctx context.Context, id int) (model.Booking, error) {
	var b model.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE;`
	if err := sqlx.GetContext(ctx, s.q, &b, query, id); err != nil {
		return model.Booking{}, mapError(err)
	}
	return b, nil
}

func (s *pgStore) ListBookingsByUser(ctx context.Context, userID int) ([]model.Booking, error) {
	var out []model.Booking
	query := `SELECT ` + bookingColumns + `
	FROM bookings
	WHERE user_id = $1
	ORDER BY created_at DESC, id DESC;`
	if err := sqlx.SelectContext(ctx, s.q, &out, query, userID); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

func (s *pgStore) FindConfirmedOverlapping(ctx context.Context, fieldID int, start, end time.Time, excludeID int) ([]model.Booking, error) {
	var out []model.Booking
	query := `SELECT ` + bookingColumns + `
	FROM bookings
	WHERE field_id = $1
	  AND status = $2
	  AND start_time < $4
	  AND end_time > $3
	  AND id <> $5
	ORDER BY start_time;`
	if err := sqlx.SelectContext(ctx, s.q, &out, query, fieldID, model.BookingConfirmed, start, end, excludeID); err != nil {
		return nil, fmt.Errorf("find overlapping bookings: %w", err)
	}
	return out, nil
}

func (s *pgStore) FindConfirmedContaining(ctx context.Context, fieldID int, at time.Time) ([]model.Booking, error) {
	var out []model.Booking
	query := `SELECT ` + bookingColumns + `
	FROM bookings
	WHERE field_id = $1
	  AND status = $2
	  AND start_time <= $3
	  AND end_time >= $3
	ORDER BY start_time;`
	if err := sqlx.SelectContext(ctx, s.q, &out, query, fieldID, model.BookingConfirmed, at); err != nil {
		return nil, fmt.Errorf("find bookings at instant: %w", err)
	}
	return out, nil
}

func (s *pgStore) ListConfirmedBetween(ctx context.Context, fieldID int, from, to time.Time) ([]model.Booking, error) {
	var out []model.Booking
	query := `SELECT ` + bookingColumns + `
	FROM bookings
	WHERE field_id = $1
	  AND status = $2
	  AND start_time <= $4
	  AND end_time >= $3
	ORDER BY start_time;`
	if err := sqlx.SelectContext(ctx, s.q, &out, query, fieldID, model.BookingConfirmed, from, to); err != nil {
		return nil, fmt.Errorf("list confirmed bookings: %w", err)
	}
	return out, nil
}

// InsertBooking relies on the bookings_no_overlap exclusion constraint; a
// violation comes back as ErrOverlap.
func (s *pgStore) InsertBooking(ctx context.Context, b model.Booking) (model.Booking, error) {
	var out model.Booking
	query := `
	INSERT INTO bookings
	  (code, user_id, field_id, start_time, end_time, status, amount, duration, total_amount, notes,
	   created_by, created_at, updated_at)
	VALUES
	  ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
	RETURNING ` + bookingColumns + `;`
	err := sqlx.GetContext(ctx, s.q, &out, query,
		b.Code, b.UserID, b.FieldID, b.StartTime, b.EndTime, b.Status,
		b.Amount, b.Duration, b.TotalAmount, b.Notes, b.CreatedBy)
	if err != nil {
		return model.Booking{}, fmt.Errorf("insert booking: %w", mapError(err))
	}
	return out, nil
}

func (s *pgStore) UpdateBookingStatus(ctx context.Context, id int, status model.BookingStatus, updatedBy int) (model.Booking, error) {
	var out model.Booking
	query := `
	UPDATE bookings
	SET status = $2, updated_by = $3, updated_at = now()
	WHERE id = $1
	RETURNING ` + bookingColumns + `;`
	if err := sqlx.GetContext(ctx, s.q, &out, query, id, status, updatedBy); err != nil {
		return model.Booking{}, fmt.Errorf("update booking status: %w", mapError(err))
	}
	return out, nil
}
