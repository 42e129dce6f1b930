package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/apperr"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

func TestValidateRule(t *testing.T) {
	valid := rule(model.Monday, model.RecurrenceWeekly, nil)
	assert.NoError(t, ValidateRule(valid))

	inverted := valid
	inverted.OpenTime, inverted.CloseTime = inverted.CloseTime, inverted.OpenTime
	assert.ErrorIs(t, ValidateRule(inverted), apperr.InvalidTimeWindow)

	badDay := valid
	badDay.DayOfWeek = "funday"
	assert.ErrorIs(t, ValidateRule(badDay), apperr.InvalidInput)
}

func TestValidateTimeBlocks(t *testing.T) {
	open, closeAt := model.Clock(9, 0, 0), model.Clock(22, 0, 0)

	tests := []struct {
		name   string
		blocks []model.TimeBlock
		ok     bool
	}{
		{"none", nil, true},
		{"inside", []model.TimeBlock{{StartTime: model.Clock(9, 0, 0), EndTime: model.Clock(22, 0, 0)}}, true},
		{"overlapping blocks allowed", []model.TimeBlock{
			{StartTime: model.Clock(9, 0, 0), EndTime: model.Clock(12, 0, 0)},
			{StartTime: model.Clock(10, 0, 0), EndTime: model.Clock(13, 0, 0)},
		}, true},
		{"starts before open", []model.TimeBlock{{StartTime: model.Clock(8, 0, 0), EndTime: model.Clock(10, 0, 0)}}, false},
		{"ends after close", []model.TimeBlock{{StartTime: model.Clock(21, 0, 0), EndTime: model.Clock(23, 0, 0)}}, false},
		{"empty block", []model.TimeBlock{{StartTime: model.Clock(10, 0, 0), EndTime: model.Clock(10, 0, 0)}}, false},
		{"inverted block", []model.TimeBlock{{StartTime: model.Clock(11, 0, 0), EndTime: model.Clock(10, 0, 0)}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeBlocks(open, closeAt, tt.blocks)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperr.InvalidTimeBlocks)
			}
		})
	}
}

func TestValidateRecurrence(t *testing.T) {
	tests := []struct {
		name string
		typ  model.RecurrenceType
		cfg  *model.RecurrenceConfig
		ok   bool
	}{
		{"weekly without config", model.RecurrenceWeekly, nil, true},
		{"weekly ignores garbage", model.RecurrenceWeekly, &model.RecurrenceConfig{Interval: ptr(0)}, true},
		{"daily needs interval", model.RecurrenceDaily, nil, false},
		{"daily zero interval", model.RecurrenceDaily, &model.RecurrenceConfig{Interval: ptr(0)}, false},
		{"daily ok", model.RecurrenceDaily, &model.RecurrenceConfig{Interval: ptr(2)}, true},
		{"biweekly without config", model.RecurrenceBiweekly, nil, true},
		{"monthly needs days", model.RecurrenceMonthly, &model.RecurrenceConfig{}, false},
		{"monthly day out of range", model.RecurrenceMonthly, &model.RecurrenceConfig{MonthlyDays: []int{0, 15}}, false},
		{"monthly day 32", model.RecurrenceMonthly, &model.RecurrenceConfig{MonthlyDays: []int{32}}, false},
		{"monthly ok", model.RecurrenceMonthly, &model.RecurrenceConfig{MonthlyDays: []int{1, 31}}, true},
		{"custom bad weekday", model.RecurrenceCustom, &model.RecurrenceConfig{DaysOfWeek: []model.DayOfWeek{"someday"}}, false},
		{"custom ok", model.RecurrenceCustom, &model.RecurrenceConfig{DaysOfWeek: []model.DayOfWeek{model.Monday}}, true},
		{"unknown type", model.RecurrenceType("yearly"), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecurrence(tt.typ, tt.cfg)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperr.InvalidRecurrenceConfig)
			}
		})
	}
}
