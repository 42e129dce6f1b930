// Package booking admits, confirms and cancels field bookings. The storage
// layer enforces that confirmed bookings on a field never overlap; this
// package maps that guarantee onto booking outcomes and fires the
// notification, reminder and audit side effects.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/apperr"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/audit"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/db"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/metrics"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/notify"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/reminder"
)

const DefaultReminderLead = 24 * time.Hour

type CreateRequest struct {
	FieldID   int
	UserID    int
	StartTime time.Time
	EndTime   time.Time
	Notes     *string
}

type CancelResult struct {
	Booking      model.Booking `json:"booking"`
	RefundAmount float64       `json:"refund_amount"`
}

type Service struct {
	store     db.Store
	notifier  notify.Notifier
	reminders reminder.Scheduler
	audit     audit.Recorder
	lead      time.Duration
	now       func() time.Time
}

type Option func(*Service)

// WithReminderLead sets how long before the start a reminder goes out.
func WithReminderLead(d time.Duration) Option {
	return func(s *Service) { s.lead = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store db.Store, n notify.Notifier, r reminder.Scheduler, rec audit.Recorder, opts ...Option) *Service {
	s := &Service{
		store:     store,
		notifier:  n,
		reminders: r,
		audit:     rec,
		lead:      DefaultReminderLead,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBooking persists the booking as confirmed. Overlap with another
// confirmed booking is rejected by the store and reported as
// FieldNotAvailable.
func (s *Service) CreateBooking(ctx context.Context, req CreateRequest) (b model.Booking, err error) {
	defer func() { metrics.ObserveBooking("create", err) }()

	if !req.StartTime.Before(req.EndTime) {
		return model.Booking{}, apperr.InvalidInput.With("start time must be before end time")
	}

	field, err := s.store.GetFieldByID(ctx, req.FieldID)
	if err != nil {
		return model.Booking{}, notFound(err, apperr.FieldNotFound, "field_id", req.FieldID)
	}
	user, err := s.store.GetUserByID(ctx, req.UserID)
	if err != nil {
		return model.Booking{}, notFound(err, apperr.UserNotFound, "user_id", req.UserID)
	}

	duration := int(req.EndTime.Sub(req.StartTime) / time.Minute)
	var amount float64
	pricing, err := s.store.FindPricing(ctx, field.ID, duration)
	switch {
	case err == nil:
		amount = pricing.Price
	case !errors.Is(err, db.ErrNotFound):
		log.Error().Err(err).Int("field_id", field.ID).Int("duration", duration).Msg("failed to look up pricing")
		return model.Booking{}, apperr.System(err)
	}

	created, err := s.store.InsertBooking(ctx, model.Booking{
		Code:        uuid.NewString(),
		UserID:      user.ID,
		FieldID:     field.ID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      model.BookingConfirmed,
		Amount:      amount,
		Duration:    duration,
		TotalAmount: amount,
		Notes:       req.Notes,
		CreatedBy:   user.ID,
	})
	if errors.Is(err, db.ErrOverlap) {
		return model.Booking{}, apperr.FieldNotAvailable
	}
	if err != nil {
		log.Error().Err(err).Int("field_id", field.ID).Int("user_id", user.ID).Msg("failed to insert booking")
		return model.Booking{}, apperr.System(err)
	}

	summary := summarize(created, field, user)
	s.sendConfirmation(ctx, summary)
	s.scheduleReminder(ctx, summary)
	s.record(ctx, model.AuditBookingCreated, user.ID, field.ID, model.AuditDetails{
		"booking_id": created.ID,
		"start_time": created.StartTime,
		"end_time":   created.EndTime,
	})
	return created, nil
}

// CancelBooking cancels the requester's own booking and reports a full
// refund of its total.
func (s *Service) CancelBooking(ctx context.Context, bookingID, userID int) (res CancelResult, err error) {
	defer func() { metrics.ObserveBooking("cancel", err) }()

	var cancelled model.Booking
	err = s.store.WithTx(ctx, func(tx db.Store) error {
		b, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return notFound(err, apperr.BookingNotFound, "booking_id", bookingID)
		}
		if b.UserID != userID {
			return apperr.Unauthorized
		}
		switch b.Status {
		case model.BookingCancelled:
			return apperr.AlreadyCancelled
		case model.BookingCompleted:
			return apperr.NotCancellable
		}

		cancelled, err = tx.UpdateBookingStatus(ctx, b.ID, model.BookingCancelled, userID)
		if err != nil {
			log.Error().Err(err).Int("booking_id", b.ID).Msg("failed to cancel booking")
			return apperr.System(err)
		}
		return nil
	})
	if err != nil {
		return CancelResult{}, systemIfUnknown(err, bookingID)
	}

	refund := cancelled.TotalAmount
	summary := s.summaryFor(ctx, cancelled)
	summary.RefundAmount = &refund
	s.sendConfirmation(ctx, summary)
	s.record(ctx, model.AuditBookingCancelled, userID, cancelled.FieldID, model.AuditDetails{
		"booking_id":    cancelled.ID,
		"refund_amount": refund,
	})
	return CancelResult{Booking: cancelled, RefundAmount: refund}, nil
}

// ConfirmBooking moves a pending booking to confirmed after re-checking its
// window against the other confirmed bookings on the field. On conflict the
// booking is cancelled, that change is committed, and FieldNotAvailable is
// returned.
func (s *Service) ConfirmBooking(ctx context.Context, bookingID, actorID int) (b model.Booking, err error) {
	defer func() { metrics.ObserveBooking("confirm", err) }()

	var (
		result   model.Booking
		fieldID  int
		conflict bool
	)
	err = s.store.WithTx(ctx, func(tx db.Store) error {
		conflict = false
		current, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return notFound(err, apperr.BookingNotFound, "booking_id", bookingID)
		}
		if current.Status != model.BookingPending {
			return apperr.NotPending
		}
		fieldID = current.FieldID

		overlapping, err := tx.FindConfirmedOverlapping(ctx, current.FieldID, current.StartTime, current.EndTime, current.ID)
		if err != nil {
			log.Error().Err(err).Int("booking_id", current.ID).Msg("failed to scan for overlapping bookings")
			return apperr.System(err)
		}

		next := model.BookingConfirmed
		if len(overlapping) > 0 {
			next, conflict = model.BookingCancelled, true
		}
		result, err = tx.UpdateBookingStatus(ctx, current.ID, next, actorID)
		return err
	})

	// a confirmed booking committed between our scan and our write
	if errors.Is(err, db.ErrOverlap) {
		if _, cerr := s.store.UpdateBookingStatus(ctx, bookingID, model.BookingCancelled, actorID); cerr != nil {
			log.Error().Err(cerr).Int("booking_id", bookingID).Msg("failed to cancel conflicting booking")
			return model.Booking{}, apperr.System(cerr)
		}
		conflict = true
		err = nil
	}
	if err != nil {
		return model.Booking{}, systemIfUnknown(err, bookingID)
	}

	if conflict {
		log.Info().Int("booking_id", bookingID).Msg("pending booking cancelled on confirm: field not available")
		s.record(ctx, model.AuditBookingUpdated, actorID, fieldID, model.AuditDetails{
			"booking_id": bookingID,
			"status":     model.BookingCancelled,
		})
		return model.Booking{}, apperr.FieldNotAvailable
	}

	s.record(ctx, model.AuditBookingUpdated, actorID, fieldID, model.AuditDetails{
		"booking_id": result.ID,
		"status":     result.Status,
	})
	return result, nil
}

// GetUserBookings lists the user's bookings, newest first.
func (s *Service) GetUserBookings(ctx context.Context, userID int) ([]model.Booking, error) {
	list, err := s.store.ListBookingsByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("failed to list bookings")
		return nil, apperr.System(err)
	}
	if list == nil {
		list = []model.Booking{}
	}
	return list, nil
}

// GetBookingDetails returns one of the user's bookings. Other users'
// bookings read as missing.
func (s *Service) GetBookingDetails(ctx context.Context, bookingID, userID int) (model.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return model.Booking{}, notFound(err, apperr.BookingNotFound, "booking_id", bookingID)
	}
	if b.UserID != userID {
		return model.Booking{}, apperr.BookingNotFound
	}
	return b, nil
}

func (s *Service) sendConfirmation(ctx context.Context, summary notify.BookingSummary) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendBookingConfirmation(ctx, summary); err != nil {
		log.Error().Err(err).Int("booking_id", summary.BookingID).Str("status", string(summary.Status)).Msg("failed to send booking notification")
		metrics.IncSideEffectFailure("notification")
	}
}

func (s *Service) scheduleReminder(ctx context.Context, summary notify.BookingSummary) {
	if s.reminders == nil {
		return
	}
	at := summary.StartTime.Add(-s.lead)
	if !at.After(s.now()) {
		return
	}
	r := reminder.Reminder{ID: uuid.NewString(), Summary: summary}
	if err := s.reminders.ScheduleAt(ctx, at, r); err != nil {
		log.Error().Err(err).Int("booking_id", summary.BookingID).Time("at", at).Msg("failed to schedule booking reminder")
		metrics.IncSideEffectFailure("reminder")
	}
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

// summaryFor loads the field and user behind b. Lookup failures leave the
// corresponding summary fields empty.
func (s *Service) summaryFor(ctx context.Context, b model.Booking) notify.BookingSummary {
	field, err := s.store.GetFieldByID(ctx, b.FieldID)
	if err != nil {
		log.Warn().Err(err).Int("field_id", b.FieldID).Msg("field lookup for notification failed")
		field = model.Field{ID: b.FieldID}
	}
	user, err := s.store.GetUserByID(ctx, b.UserID)
	if err != nil {
		log.Warn().Err(err).Int("user_id", b.UserID).Msg("user lookup for notification failed")
		user = model.User{ID: b.UserID}
	}
	return summarize(b, field, user)
}

func summarize(b model.Booking, field model.Field, user model.User) notify.BookingSummary {
	return notify.BookingSummary{
		BookingID:    b.ID,
		Code:         b.Code,
		UserID:       user.ID,
		UserEmail:    user.Email,
		FieldID:      field.ID,
		FieldName:    field.Name,
		FieldAddress: field.Address,
		StartTime:    b.StartTime,
		Duration:     b.Duration,
		TotalAmount:  b.TotalAmount,
		Status:       b.Status,
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

// systemIfUnknown passes engine errors through and wraps anything the
// transaction machinery produced on its own.
func systemIfUnknown(err error, bookingID int) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return err
	}
	log.Error().Err(err).Int("booking_id", bookingID).Msg("booking transaction failed")
	return apperr.System(err)
}
