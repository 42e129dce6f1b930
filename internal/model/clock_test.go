package model

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockTimeOnKeepsWallClock(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 2025-03-30 is 23 hours long in Berlin, 2025-10-26 is 25
	for _, d := range []Date{{2025, time.March, 30}, {2025, time.October, 26}} {
		got := Clock(9, 15, 30).On(d, berlin)
		assert.Equal(t, time.Date(d.Year, d.Month, d.Day, 9, 15, 30, 0, berlin), got)
		assert.Equal(t, Clock(9, 15, 30), ClockOf(got))
	}

	midnight := Clock(24, 0, 0).On(Date{2025, time.March, 30}, berlin)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, berlin), midnight)
}
