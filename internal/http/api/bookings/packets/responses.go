package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

type BookingResponse struct {
	ID          int                 `json:"id"`
	Code        string              `json:"code"`
	FieldID     int                 `json:"field_id"`
	UserID      int                 `json:"user_id"`
	StartTime   string              `json:"start_time"`
	EndTime     string              `json:"end_time"`
	Status      model.BookingStatus `json:"status"`
	Duration    int                 `json:"duration"`
	Amount      float64             `json:"amount"`
	TotalAmount float64             `json:"total_amount"`
	Notes       *string             `json:"notes,omitempty"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

func NewBookingResponse(b model.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		Code:        b.Code,
		FieldID:     b.FieldID,
		UserID:      b.UserID,
		StartTime:   b.StartTime.Format(time.RFC3339),
		EndTime:     b.EndTime.Format(time.RFC3339),
		Status:      b.Status,
		Duration:    b.Duration,
		Amount:      b.Amount,
		TotalAmount: b.TotalAmount,
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
	}
}

type CancelBookingResponse struct {
	Booking      BookingResponse `json:"booking"`
	RefundAmount float64         `json:"refund_amount"`
}
