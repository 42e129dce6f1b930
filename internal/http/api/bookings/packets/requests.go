package packets

import "time"

// CreateBookingRequest Times are RFC3339; the window is [start_time, end_time).
type CreateBookingRequest struct {
	FieldID   int       `json:"field_id" binding:"required"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Notes     *string   `json:"notes"`
}
