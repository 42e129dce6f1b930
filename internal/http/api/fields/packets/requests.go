package packets

import "github.com/Nixie-Tech-LLC/fieldbook/internal/model"

// CreateScheduleRequest Times are "HH:MM" or "HH:MM:SS"; close may be "24:00".
type CreateScheduleRequest struct {
	DayOfWeek        model.DayOfWeek         `json:"day_of_week" binding:"required"`
	OpenTime         *model.ClockTime        `json:"open_time" binding:"required"`
	CloseTime        *model.ClockTime        `json:"close_time" binding:"required"`
	IsAvailable      *bool                   `json:"is_available"`
	SpecialPrice     *float64                `json:"special_price"`
	ZoneName         *string                 `json:"zone_name"`
	ZoneConfig       *model.ZoneConfig       `json:"zone_config"`
	RecurrenceType   model.RecurrenceType    `json:"recurrence_type"`
	RecurrenceConfig *model.RecurrenceConfig `json:"recurrence_config"`
	TimeBlocks       []model.TimeBlock       `json:"time_blocks"`
}

// UpdateScheduleRequest Omitted attributes stay as they are; names in Clear
// reset optional attributes.
type UpdateScheduleRequest struct {
	DayOfWeek        *model.DayOfWeek        `json:"day_of_week"`
	OpenTime         *model.ClockTime        `json:"open_time"`
	CloseTime        *model.ClockTime        `json:"close_time"`
	IsAvailable      *bool                   `json:"is_available"`
	SpecialPrice     *float64                `json:"special_price"`
	ZoneName         *string                 `json:"zone_name"`
	ZoneConfig       *model.ZoneConfig       `json:"zone_config"`
	RecurrenceType   *model.RecurrenceType   `json:"recurrence_type"`
	RecurrenceConfig *model.RecurrenceConfig `json:"recurrence_config"`
	TimeBlocks       *[]model.TimeBlock      `json:"time_blocks"`
	Clear            []string                `json:"clear" binding:"omitempty,dive,oneof=special_price zone_name zone_config recurrence_config"`
}
