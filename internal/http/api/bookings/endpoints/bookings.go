package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/access"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/booking"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/http/api"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/http/api/bookings/packets"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

type BookingController struct {
	bookings *booking.Service
}

func NewBookingController(s *booking.Service) *BookingController {
	return &BookingController{bookings: s}
}

func BookingModule(s *booking.Service) api.Module {
	ctl := NewBookingController(s)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/bookings", ctl.createBooking)
		c.GET("/bookings", ctl.listBookings)
		c.GET("/bookings/:id", ctl.getBooking)
		c.PUT("/bookings/:id/cancel", ctl.cancelBooking)
		c.PUT("/bookings/:id/confirm", ctl.confirmBooking)
	})
}

func (b *BookingController) createBooking(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if err := access.RequireAnyRole(*user, access.BookingCreators...); err != nil {
		return nil, api.FromError(err)
	}

	var request packets.CreateBookingRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	if request.StartTime.IsZero() || request.EndTime.IsZero() {
		return nil, api.BadRequest("start_time and end_time are required")
	}

	created, err := b.bookings.CreateBooking(ctx.Request.Context(), booking.CreateRequest{
		FieldID:   request.FieldID,
		UserID:    user.ID,
		StartTime: request.StartTime,
		EndTime:   request.EndTime,
		Notes:     request.Notes,
	})
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.NewBookingResponse(created), nil
}

func (b *BookingController) listBookings(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	list, err := b.bookings.GetUserBookings(ctx.Request.Context(), user.ID)
	if err != nil {
		return nil, api.FromError(err)
	}

	response := make([]packets.BookingResponse, 0, len(list))
	for _, it := range list {
		response = append(response, packets.NewBookingResponse(it))
	}
	return response, nil
}

func (b *BookingController) getBooking(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}

	found, err := b.bookings.GetBookingDetails(ctx.Request.Context(), id, user.ID)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.NewBookingResponse(found), nil
}

func (b *BookingController) cancelBooking(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}

	res, err := b.bookings.CancelBooking(ctx.Request.Context(), id, user.ID)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.CancelBookingResponse{
		Booking:      packets.NewBookingResponse(res.Booking),
		RefundAmount: res.RefundAmount,
	}, nil
}

func (b *BookingController) confirmBooking(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if err := access.Require(*user, access.BookingConfirmers, access.ManageBookings); err != nil {
		return nil, api.FromError(err)
	}
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}

	confirmed, err := b.bookings.ConfirmBooking(ctx.Request.Context(), id, user.ID)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.NewBookingResponse(confirmed), nil
}
