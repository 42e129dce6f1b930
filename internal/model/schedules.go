package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// week order used when listing rules: monday first
var weekOrder = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func DayOfWeekOf(w time.Weekday) DayOfWeek {
	if w == time.Sunday {
		return Sunday
	}
	return weekOrder[int(w)-1]
}

func (d DayOfWeek) Valid() bool {
	return d.Index() >= 0
}

// Index is the position of d in a monday-first week, or -1.
func (d DayOfWeek) Index() int {
	for i, w := range weekOrder {
		if w == d {
			return i
		}
	}
	return -1
}

type RecurrenceType string

const (
	RecurrenceDaily    RecurrenceType = "daily"
	RecurrenceWeekly   RecurrenceType = "weekly"
	RecurrenceBiweekly RecurrenceType = "biweekly"
	RecurrenceMonthly  RecurrenceType = "monthly"
	RecurrenceCustom   RecurrenceType = "custom"
)

func (r RecurrenceType) Valid() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceBiweekly, RecurrenceMonthly, RecurrenceCustom:
		return true
	}
	return false
}

// Rule and field status values.
const (
	StatusInactive = 0
	StatusActive   = 1
)

// ZoneConfig is opaque zone metadata carried with a rule.
type ZoneConfig struct {
	Capacity    *int     `json:"capacity,omitempty"`
	Description *string  `json:"description,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
}

func (z ZoneConfig) Value() (driver.Value, error) { return jsonValue(z) }
func (z *ZoneConfig) Scan(src any) error         { return scanJSON(src, z) }

type RecurrenceConfig struct {
	Interval    *int        `json:"interval,omitempty"`
	DaysOfWeek  []DayOfWeek `json:"daysOfWeek,omitempty"`
	MonthlyDays []int       `json:"monthlyDays,omitempty"`
	EndDate     *Date       `json:"endDate,omitempty"`
	Exceptions  []Date      `json:"exceptions,omitempty"`
}

func (r RecurrenceConfig) Value() (driver.Value, error) { return jsonValue(r) }
func (r *RecurrenceConfig) Scan(src any) error         { return scanJSON(src, r) }

// TimeBlock is a sub-window of a rule with its own optional price and capacity.
type TimeBlock struct {
	StartTime ClockTime `json:"startTime"`
	EndTime   ClockTime `json:"endTime"`
	Capacity  *int      `json:"capacity,omitempty"`
	Price     *float64  `json:"price,omitempty"`
}

type TimeBlocks []TimeBlock

func (b TimeBlocks) Value() (driver.Value, error) {
	if b == nil {
		return "[]", nil
	}
	return jsonValue(b)
}

func (b *TimeBlocks) Scan(src any) error { return scanJSON(src, b) }

// ScheduleRule is a recurring availability window of a field on one weekday.
type ScheduleRule struct {
	ID               int               `db:"id"                json:"id"`
	Code             string            `db:"code"              json:"code"`
	FieldID          int               `db:"field_id"          json:"field_id"`
	DayOfWeek        DayOfWeek         `db:"day_of_week"       json:"day_of_week"`
	OpenTime         ClockTime         `db:"open_time"         json:"open_time"`
	CloseTime        ClockTime         `db:"close_time"        json:"close_time"`
	IsAvailable      bool              `db:"is_available"      json:"is_available"`
	SpecialPrice     *float64          `db:"special_price"     json:"special_price,omitempty"`
	ZoneName         *string           `db:"zone_name"         json:"zone_name,omitempty"`
	ZoneConfig       *ZoneConfig       `db:"zone_config"       json:"zone_config,omitempty"`
	RecurrenceType   RecurrenceType    `db:"recurrence_type"   json:"recurrence_type"`
	RecurrenceConfig *RecurrenceConfig `db:"recurrence_config" json:"recurrence_config,omitempty"`
	TimeBlocks       TimeBlocks        `db:"time_blocks"       json:"time_blocks"`
	Status           int               `db:"status"            json:"status"`
	CreatedBy        int               `db:"created_by"        json:"created_by"`
	CreatedAt        time.Time         `db:"created_at"        json:"created_at"`
	UpdatedBy        *int              `db:"updated_by"        json:"updated_by,omitempty"`
	UpdatedAt        time.Time         `db:"updated_at"        json:"updated_at"`
}

// Active reports whether the rule takes part in availability resolution.
func (r ScheduleRule) Active() bool {
	return r.Status == StatusActive && r.IsAvailable
}

// CreatedDateIn anchors daily and biweekly recurrence. It is the creation
// day as seen on the facility's wall clock.
func (r ScheduleRule) CreatedDateIn(loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(r.CreatedAt.In(loc))
}

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON(src any, dest any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dest)
	}
}
