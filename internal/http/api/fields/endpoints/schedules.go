package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/access"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/availability"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/http/api"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/http/api/fields/packets"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/rules"
)

type FieldController struct {
	rules        *rules.Service
	availability *availability.Service
}

func NewFieldController(r *rules.Service, a *availability.Service) *FieldController {
	return &FieldController{rules: r, availability: a}
}

func FieldModule(r *rules.Service, a *availability.Service) api.Module {
	ctl := NewFieldController(r, a)
	return api.ModuleFunc(func(c *api.Controller) {
		// schedule rules
		c.GET("/fields/:id/schedules", ctl.listSchedules)
		c.POST("/fields/:id/schedules", ctl.createSchedule)
		c.PUT("/fields/:id/schedules/:rule_id", ctl.updateSchedule)
		c.DELETE("/fields/:id/schedules/:rule_id", ctl.deleteSchedule)

		c.POST("/fields/:id/deactivate", ctl.deactivateField)

		// availability
		c.GET("/fields/:id/availability", ctl.checkAvailability)
		c.GET("/fields/:id/slots", ctl.listSlots)
	})
}

func canEditSchedules(user *model.User) *api.APIError {
	if err := access.Require(*user, access.ScheduleEditors, access.UpdateSchedules); err != nil {
		return api.FromError(err)
	}
	return nil
}

func (f *FieldController) listSchedules(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	fieldID, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}

	list, err := f.rules.ListRules(ctx.Request.Context(), fieldID)
	if err != nil {
		return nil, api.FromError(err)
	}

	response := make([]packets.ScheduleResponse, 0, len(list))
	for _, r := range list {
		response = append(response, packets.NewScheduleResponse(r))
	}
	return response, nil
}

func (f *FieldController) createSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if apiErr := canEditSchedules(user); apiErr != nil {
		return nil, apiErr
	}
	fieldID, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	created, err := f.rules.AddRule(ctx.Request.Context(), fieldID, rules.RuleInput{
		DayOfWeek:        request.DayOfWeek,
		OpenTime:         *request.OpenTime,
		CloseTime:        *request.CloseTime,
		IsAvailable:      request.IsAvailable,
		SpecialPrice:     request.SpecialPrice,
		ZoneName:         request.ZoneName,
		ZoneConfig:       request.ZoneConfig,
		RecurrenceType:   request.RecurrenceType,
		RecurrenceConfig: request.RecurrenceConfig,
		TimeBlocks:       request.TimeBlocks,
	}, user.ID)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.NewScheduleResponse(created), nil
}

func (f *FieldController) updateSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if apiErr := canEditSchedules(user); apiErr != nil {
		return nil, apiErr
	}
	fieldID, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	ruleID, apiErr := api.ParamID(ctx, "rule_id")
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpdateScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	updated, err := f.rules.UpdateRule(ctx.Request.Context(), fieldID, ruleID, rules.RulePatch{
		DayOfWeek:        request.DayOfWeek,
		OpenTime:         request.OpenTime,
		CloseTime:        request.CloseTime,
		IsAvailable:      request.IsAvailable,
		SpecialPrice:     request.SpecialPrice,
		ZoneName:         request.ZoneName,
		ZoneConfig:       request.ZoneConfig,
		RecurrenceType:   request.RecurrenceType,
		RecurrenceConfig: request.RecurrenceConfig,
		TimeBlocks:       request.TimeBlocks,
		Clear:            clearables(request.Clear),
	}, user.ID)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.NewScheduleResponse(updated), nil
}

func (f *FieldController) deleteSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if apiErr := canEditSchedules(user); apiErr != nil {
		return nil, apiErr
	}
	fieldID, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	ruleID, apiErr := api.ParamID(ctx, "rule_id")
	if apiErr != nil {
		return nil, apiErr
	}

	if err := f.rules.DeleteRule(ctx.Request.Context(), fieldID, ruleID, user.ID); err != nil {
		return nil, api.FromError(err)
	}
	return gin.H{"message": "deleted"}, nil
}

func (f *FieldController) deactivateField(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if apiErr := canEditSchedules(user); apiErr != nil {
		return nil, apiErr
	}
	fieldID, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}

	if err := f.rules.DeactivateField(ctx.Request.Context(), fieldID, user.ID); err != nil {
		return nil, api.FromError(err)
	}
	return gin.H{"message": "deactivated"}, nil
}

func clearables(names []string) []rules.Clearable {
	out := make([]rules.Clearable, len(names))
	for i, n := range names {
		out[i] = rules.Clearable(n)
	}
	return out
}
