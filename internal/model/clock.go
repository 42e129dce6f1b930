package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ClockTime is a wall-clock time of day stored as seconds after midnight.
// 24:00:00 is accepted so a window can close at the end of the day.
type ClockTime int

const endOfDay ClockTime = 24 * 60 * 60

// Clock builds a ClockTime from hours, minutes and seconds.
func Clock(hour, minute, second int) ClockTime {
	return ClockTime(hour*3600 + minute*60 + second)
}

// ClockOf returns the wall-clock time of t in t's location.
func ClockOf(t time.Time) ClockTime {
	return Clock(t.Hour(), t.Minute(), t.Second())
}

// ParseClock accepts "HH:MM" or "HH:MM:SS".
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	var nums [3]int
	for i, p := range parts {
		if len(p) != 2 || p[0] < '0' || p[0] > '9' || p[1] < '0' || p[1] > '9' {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
		nums[i] = int(p[0]-'0')*10 + int(p[1]-'0')
	}
	h, m, sec := nums[0], nums[1], nums[2]
	if m > 59 || sec > 59 || h > 24 || (h == 24 && (m != 0 || sec != 0)) {
		return 0, fmt.Errorf("time of day out of range %q", s)
	}
	return Clock(h, m, sec), nil
}

func (c ClockTime) Valid() bool {
	return c >= 0 && c <= endOfDay
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)%3600/60, int(c)%60)
}

// On places the clock time on date d in loc. The wall clock is kept across
// DST changes; 24:00 lands on the next day's midnight.
func (c ClockTime) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, int(c)/3600, int(c)%3600/60, int(c)%60, 0, loc)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value stores the clock time in a Postgres TIME column.
func (c ClockTime) Value() (driver.Value, error) {
	return c.String(), nil
}

// Scan reads a TIME column. lib/pq hands TIME values over as time.Time on
// 0000-01-01, other drivers as text.
func (c *ClockTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*c = ClockOf(v)
		return nil
	case []byte:
		return c.scanText(string(v))
	case string:
		return c.scanText(v)
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", src)
	}
}

func (c *ClockTime) scanText(s string) error {
	// drop fractional seconds
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
