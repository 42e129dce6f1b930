package packets

import (
	"github.com/Nixie-Tech-LLC/fieldbook/internal/availability"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

type ScheduleResponse struct {
	ID               int                     `json:"id"`
	Code             string                  `json:"code"`
	FieldID          int                     `json:"field_id"`
	DayOfWeek        model.DayOfWeek         `json:"day_of_week"`
	OpenTime         model.ClockTime         `json:"open_time"`
	CloseTime        model.ClockTime         `json:"close_time"`
	IsAvailable      bool                    `json:"is_available"`
	SpecialPrice     *float64                `json:"special_price,omitempty"`
	ZoneName         *string                 `json:"zone_name,omitempty"`
	ZoneConfig       *model.ZoneConfig       `json:"zone_config,omitempty"`
	RecurrenceType   model.RecurrenceType    `json:"recurrence_type"`
	RecurrenceConfig *model.RecurrenceConfig `json:"recurrence_config,omitempty"`
	TimeBlocks       []model.TimeBlock       `json:"time_blocks"`
}

func NewScheduleResponse(r model.ScheduleRule) ScheduleResponse {
	blocks := []model.TimeBlock(r.TimeBlocks)
	if blocks == nil {
		blocks = []model.TimeBlock{}
	}
	return ScheduleResponse{
		ID:               r.ID,
		Code:             r.Code,
		FieldID:          r.FieldID,
		DayOfWeek:        r.DayOfWeek,
		OpenTime:         r.OpenTime,
		CloseTime:        r.CloseTime,
		IsAvailable:      r.IsAvailable,
		SpecialPrice:     r.SpecialPrice,
		ZoneName:         r.ZoneName,
		ZoneConfig:       r.ZoneConfig,
		RecurrenceType:   r.RecurrenceType,
		RecurrenceConfig: r.RecurrenceConfig,
		TimeBlocks:       blocks,
	}
}

type AvailabilityResponse struct {
	FieldID   int                 `json:"field_id"`
	At        string              `json:"at"`
	Available bool                `json:"available"`
	Reason    availability.Reason `json:"reason,omitempty"`
	RuleID    *int                `json:"rule_id,omitempty"`
	ZoneName  *string             `json:"zone_name,omitempty"`
	Price     *float64            `json:"price,omitempty"`
	Capacity  *int                `json:"capacity,omitempty"`
}

type SlotsResponse struct {
	FieldID int                 `json:"field_id"`
	Date    model.Date          `json:"date"`
	Slots   []availability.Slot `json:"slots"`
}
