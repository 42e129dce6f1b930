// exposes a Store interface that is passed to the engine services
package db

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("db: not found")
	// ErrOverlap is returned when a write would leave two confirmed bookings
	// of one field with overlapping intervals.
	ErrOverlap = errors.New("db: overlapping confirmed booking")
	// ErrDuplicate is returned on unique key violations.
	ErrDuplicate = errors.New("db: duplicate key")
)

type Store interface {
	// user functions
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id int) (model.User, error)

	// field functions
	GetFieldByID(ctx context.Context, id int) (model.Field, error)
	// DeactivateField marks the field and every rule it owns inactive.
	DeactivateField(ctx context.Context, id, updatedBy int) error
	FindPricing(ctx context.Context, fieldID, durationMinutes int) (model.FieldPricing, error)

	// schedule rule functions
	ListRulesByField(ctx context.Context, fieldID int) ([]model.ScheduleRule, error)
	// ListActiveRulesByDay returns active, available rules in store order (id).
	ListActiveRulesByDay(ctx context.Context, fieldID int, day model.DayOfWeek) ([]model.ScheduleRule, error)
	GetRule(ctx context.Context, fieldID, ruleID int) (model.ScheduleRule, error)
	InsertRule(ctx context.Context, r model.ScheduleRule) (model.ScheduleRule, error)
	UpdateRule(ctx context.Context, r model.ScheduleRule) (model.ScheduleRule, error)
	SetRuleStatus(ctx context.Context, fieldID, ruleID, status, updatedBy int) error

	// booking functions
	GetBooking(ctx context.Context, id int) (model.Booking, error)
	// GetBookingForUpdate locks the row until the surrounding transaction ends.
	GetBookingForUpdate(ctx context.Context, id int) (model.Booking, error)
	ListBookingsByUser(ctx context.Context, userID int) ([]model.Booking, error)
	// FindConfirmedOverlapping applies the half-open test start < end' AND end > start'.
	// excludeID of 0 excludes nothing.
	FindConfirmedOverlapping(ctx context.Context, fieldID int, start, end time.Time, excludeID int) ([]model.Booking, error)
	// FindConfirmedContaining applies the inclusive point test start <= at <= end.
	FindConfirmedContaining(ctx context.Context, fieldID int, at time.Time) ([]model.Booking, error)
	// ListConfirmedBetween returns confirmed bookings touching [from, to].
	ListConfirmedBetween(ctx context.Context, fieldID int, from, to time.Time) ([]model.Booking, error)
	InsertBooking(ctx context.Context, b model.Booking) (model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int, status model.BookingStatus, updatedBy int) (model.Booking, error)

	// audit functions
	InsertAudit(ctx context.Context, e model.AuditEntry) error

	// WithTx runs fn against a Store bound to one serializable transaction.
	// The transaction commits when fn returns nil. Nested calls join the outer
	// transaction.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

type pgStore struct {
	db *sqlx.DB
	// q is db outside a transaction and the open *sqlx.Tx inside one.
	q  sqlx.ExtContext
	tx *sqlx.Tx
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn, q: conn}
}
