package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/apperr"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/audit"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/db"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T) (*Service, *db.MemoryStore, model.Field) {
	t.Helper()
	store := db.NewMemoryStore()
	f := store.AddField(model.Field{Code: "f-1", Name: "Center Court", BrandID: 1, Status: model.StatusActive})
	return NewService(store, audit.NewStoreRecorder(store)), store, f
}

func mondayEvening() RuleInput {
	return RuleInput{
		DayOfWeek: model.Monday,
		OpenTime:  model.Clock(17, 0, 0),
		CloseTime: model.Clock(22, 0, 0),
	}
}

func TestAddRuleDefaultsAndRoundTrip(t *testing.T) {
	svc, _, f := setup(t)
	ctx := context.Background()

	in := RuleInput{
		DayOfWeek:      model.Tuesday,
		OpenTime:       model.Clock(9, 0, 0),
		CloseTime:      model.Clock(21, 0, 0),
		SpecialPrice:   ptr(55.0),
		ZoneName:       ptr("court-a"),
		ZoneConfig:     &model.ZoneConfig{Capacity: ptr(4), Description: ptr("indoor")},
		RecurrenceType: model.RecurrenceMonthly,
		RecurrenceConfig: &model.RecurrenceConfig{
			MonthlyDays: []int{1, 15},
		},
		TimeBlocks: []model.TimeBlock{
			{StartTime: model.Clock(9, 0, 0), EndTime: model.Clock(12, 0, 0), Price: ptr(40.0)},
		},
	}
	created, err := svc.AddRule(ctx, f.ID, in, 7)
	require.NoError(t, err)
	assert.True(t, created.IsAvailable)
	assert.Equal(t, model.StatusActive, created.Status)
	assert.NotEmpty(t, created.Code)
	assert.Equal(t, 7, created.CreatedBy)

	list, err := svc.ListRules(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])

	weekly, err := svc.AddRule(ctx, f.ID, mondayEvening(), 7)
	require.NoError(t, err)
	assert.Equal(t, model.RecurrenceWeekly, weekly.RecurrenceType)
}

func TestAddRuleErrors(t *testing.T) {
	svc, _, f := setup(t)
	ctx := context.Background()

	_, err := svc.AddRule(ctx, f.ID+100, mondayEvening(), 1)
	assert.ErrorIs(t, err, apperr.FieldNotFound)

	inverted := mondayEvening()
	inverted.OpenTime, inverted.CloseTime = inverted.CloseTime, inverted.OpenTime
	_, err = svc.AddRule(ctx, f.ID, inverted, 1)
	assert.ErrorIs(t, err, apperr.InvalidTimeWindow)

	outside := mondayEvening()
	outside.TimeBlocks = []model.TimeBlock{{StartTime: model.Clock(16, 0, 0), EndTime: model.Clock(18, 0, 0)}}
	_, err = svc.AddRule(ctx, f.ID, outside, 1)
	assert.ErrorIs(t, err, apperr.InvalidTimeBlocks)

	daily := mondayEvening()
	daily.RecurrenceType = model.RecurrenceDaily
	_, err = svc.AddRule(ctx, f.ID, daily, 1)
	assert.ErrorIs(t, err, apperr.InvalidRecurrenceConfig)
}

func TestListRulesOrdering(t *testing.T) {
	svc, _, f := setup(t)
	ctx := context.Background()

	inputs := []RuleInput{
		{DayOfWeek: model.Sunday, OpenTime: model.Clock(8, 0, 0), CloseTime: model.Clock(10, 0, 0)},
		{DayOfWeek: model.Monday, OpenTime: model.Clock(18, 0, 0), CloseTime: model.Clock(20, 0, 0)},
		{DayOfWeek: model.Wednesday, OpenTime: model.Clock(7, 0, 0), CloseTime: model.Clock(9, 0, 0)},
		{DayOfWeek: model.Monday, OpenTime: model.Clock(6, 0, 0), CloseTime: model.Clock(8, 0, 0)},
	}
	for _, in := range inputs {
		_, err := svc.AddRule(ctx, f.ID, in, 1)
		require.NoError(t, err)
	}

	list, err := svc.ListRules(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)

	var got []string
	for _, r := range list {
		got = append(got, string(r.DayOfWeek)+" "+r.OpenTime.String())
	}
	assert.Equal(t, []string{
		"monday 06:00:00",
		"monday 18:00:00",
		"wednesday 07:00:00",
		"sunday 08:00:00",
	}, got)
}

func TestUpdateRule(t *testing.T) {
	svc, _, f := setup(t)
	ctx := context.Background()

	created, err := svc.AddRule(ctx, f.ID, mondayEvening(), 1)
	require.NoError(t, err)

	updated, err := svc.UpdateRule(ctx, f.ID, created.ID, RulePatch{
		CloseTime:    ptr(model.Clock(23, 0, 0)),
		SpecialPrice: ptr(70.0),
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, model.Clock(23, 0, 0), updated.CloseTime)
	assert.Equal(t, model.Clock(17, 0, 0), updated.OpenTime)
	assert.Equal(t, 70.0, *updated.SpecialPrice)
	assert.Equal(t, 2, *updated.UpdatedBy)
	assert.Equal(t, created.Code, updated.Code)

	_, err = svc.UpdateRule(ctx, f.ID, created.ID, RulePatch{OpenTime: ptr(model.Clock(23, 30, 0))}, 2)
	assert.ErrorIs(t, err, apperr.InvalidTimeWindow)

	_, err = svc.UpdateRule(ctx, f.ID+1, created.ID, RulePatch{}, 2)
	assert.ErrorIs(t, err, apperr.RuleNotFound)

	_, err = svc.UpdateRule(ctx, f.ID, created.ID+100, RulePatch{}, 2)
	assert.ErrorIs(t, err, apperr.RuleNotFound)
}

func TestUpdateRuleClearsOptionalAttributes(t *testing.T) {
	svc, _, f := setup(t)
	ctx := context.Background()

	rule := mondayEvening()
	rule.SpecialPrice = ptr(55.0)
	rule.ZoneName = ptr("north half")
	created, err := svc.AddRule(ctx, f.ID, rule, 1)
	require.NoError(t, err)

	updated, err := svc.UpdateRule(ctx, f.ID, created.ID, RulePatch{Clear: []Clearable{ClearSpecialPrice}}, 2)
	require.NoError(t, err)
	assert.Nil(t, updated.SpecialPrice)
	require.NotNil(t, updated.ZoneName)
	assert.Equal(t, "north half", *updated.ZoneName)

	// a value set in the same patch wins over the clear
	updated, err = svc.UpdateRule(ctx, f.ID, created.ID, RulePatch{
		ZoneName: ptr("south half"),
		Clear:    []Clearable{ClearZoneName},
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, "south half", *updated.ZoneName)
}

func TestDeleteRuleIsIdempotent(t *testing.T) {
	svc, store, f := setup(t)
	ctx := context.Background()

	created, err := svc.AddRule(ctx, f.ID, mondayEvening(), 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRule(ctx, f.ID, created.ID, 1))
	require.NoError(t, svc.DeleteRule(ctx, f.ID, created.ID, 1))

	list, err := svc.ListRules(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, svc.DeleteRule(ctx, f.ID, created.ID+100, 1), apperr.RuleNotFound)

	_, err = svc.UpdateRule(ctx, f.ID, created.ID, RulePatch{}, 1)
	assert.ErrorIs(t, err, apperr.RuleNotFound)

	var deletes int
	for _, e := range store.AuditEntries() {
		if e.Action == model.AuditScheduleDeleted {
			deletes++
		}
	}
	assert.Equal(t, 1, deletes)
}

func TestDeactivateFieldCascades(t *testing.T) {
	svc, store, f := setup(t)
	ctx := context.Background()

	_, err := svc.AddRule(ctx, f.ID, mondayEvening(), 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateField(ctx, f.ID, 1))
	list, err := svc.ListRules(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := store.GetFieldByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, got.Status)

	assert.ErrorIs(t, svc.DeactivateField(ctx, f.ID+100, 1), apperr.FieldNotFound)
}
