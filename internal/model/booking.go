package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type Booking struct {
	ID          int           `db:"id"           json:"id"`
	Code        string        `db:"code"         json:"code"`
	UserID      int           `db:"user_id"      json:"user_id"`
	FieldID     int           `db:"field_id"     json:"field_id"`
	StartTime   time.Time     `db:"start_time"   json:"start_time"`
	EndTime     time.Time     `db:"end_time"     json:"end_time"`
	Status      BookingStatus `db:"status"       json:"status"`
	Amount      float64       `db:"amount"       json:"amount"`
	Duration    int           `db:"duration"     json:"duration"`
	TotalAmount float64       `db:"total_amount" json:"total_amount"`
	Notes       *string       `db:"notes"        json:"notes,omitempty"`
	CreatedBy   int           `db:"created_by"   json:"created_by"`
	CreatedAt   time.Time     `db:"created_at"   json:"created_at"`
	UpdatedBy   *int          `db:"updated_by"   json:"updated_by,omitempty"`
	UpdatedAt   time.Time     `db:"updated_at"   json:"updated_at"`
}

// Overlaps is the half-open interval test used for the confirmed-booking invariant.
func (b Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// ContainsInstant is the inclusive point test used by availability checks.
func (b Booking) ContainsInstant(at time.Time) bool {
	return !b.StartTime.After(at) && !b.EndTime.Before(at)
}
