package endpoints

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/http/api"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/http/api/fields/packets"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

// GET /api/fields/:id/availability?at=2025-04-14T10:00:00Z
func (f *FieldController) checkAvailability(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	fieldID, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	at, err := time.Parse(time.RFC3339, ctx.Query("at"))
	if err != nil {
		return nil, api.BadRequest("at must be an RFC3339 timestamp")
	}

	res, err := f.availability.CheckAvailability(ctx.Request.Context(), fieldID, at)
	if err != nil {
		return nil, api.FromError(err)
	}

	response := packets.AvailabilityResponse{
		FieldID:   fieldID,
		At:        at.Format(time.RFC3339),
		Available: res.Available,
		Reason:    res.Reason,
		Price:     res.Price,
	}
	if res.Rule != nil {
		response.RuleID = &res.Rule.ID
		response.ZoneName = res.Rule.ZoneName
	}
	if res.Window != nil {
		response.Capacity = res.Window.Capacity
	}
	return response, nil
}

// GET /api/fields/:id/slots?date=2025-04-14
func (f *FieldController) listSlots(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	fieldID, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	date, err := model.ParseDate(ctx.Query("date"))
	if err != nil {
		return nil, api.BadRequest("date must be YYYY-MM-DD")
	}

	slots, err := f.availability.ListAvailableSlots(ctx.Request.Context(), fieldID, date)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.SlotsResponse{FieldID: fieldID, Date: date, Slots: slots}, nil
}
