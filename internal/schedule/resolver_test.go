package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

func TestResolveWholeWindow(t *testing.T) {
	r := rule(model.Monday, model.RecurrenceWeekly, nil)
	r.SpecialPrice = ptr(80.0)

	w, ok := Resolve(r, model.Clock(10, 0, 0))
	require.True(t, ok)
	assert.Equal(t, model.Clock(9, 0, 0), w.Start)
	assert.Equal(t, model.Clock(22, 0, 0), w.End)
	assert.Equal(t, 80.0, *w.Price)
	assert.Equal(t, -1, w.BlockIndex)

	_, ok = Resolve(r, model.Clock(22, 0, 0))
	assert.True(t, ok, "close time is inclusive")

	_, ok = Resolve(r, model.Clock(8, 59, 59))
	assert.False(t, ok)
}

func TestResolveTimeBlocks(t *testing.T) {
	r := rule(model.Monday, model.RecurrenceWeekly, nil)
	r.SpecialPrice = ptr(50.0)
	r.TimeBlocks = model.TimeBlocks{
		{StartTime: model.Clock(9, 0, 0), EndTime: model.Clock(12, 0, 0)},
		{StartTime: model.Clock(11, 0, 0), EndTime: model.Clock(14, 0, 0), Price: ptr(75.0), Capacity: ptr(10)},
		{StartTime: model.Clock(18, 0, 0), EndTime: model.Clock(22, 0, 0), Price: ptr(120.0)},
	}

	t.Run("falls back to rule price", func(t *testing.T) {
		w, ok := Resolve(r, model.Clock(10, 0, 0))
		require.True(t, ok)
		assert.Equal(t, 0, w.BlockIndex)
		assert.Equal(t, 50.0, *w.Price)
	})

	t.Run("first overlapping block wins", func(t *testing.T) {
		w, ok := Resolve(r, model.Clock(11, 30, 0))
		require.True(t, ok)
		assert.Equal(t, 0, w.BlockIndex)
	})

	t.Run("block end is inclusive", func(t *testing.T) {
		w, ok := Resolve(r, model.Clock(12, 0, 0))
		require.True(t, ok)
		assert.Equal(t, 0, w.BlockIndex)

		w, ok = Resolve(r, model.Clock(22, 0, 0))
		require.True(t, ok)
		assert.Equal(t, 2, w.BlockIndex)
		assert.Equal(t, 120.0, *w.Price)
	})

	t.Run("block price and capacity", func(t *testing.T) {
		w, ok := Resolve(r, model.Clock(13, 0, 0))
		require.True(t, ok)
		assert.Equal(t, 1, w.BlockIndex)
		assert.Equal(t, 75.0, *w.Price)
		assert.Equal(t, 10, *w.Capacity)
	})

	t.Run("gap between blocks", func(t *testing.T) {
		_, ok := Resolve(r, model.Clock(15, 0, 0))
		assert.False(t, ok)
	})
}
