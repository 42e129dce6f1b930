package model

import (
	"database/sql/driver"
	"time"
)

type AuditAction string

const (
	AuditBookingCreated   AuditAction = "booking_created"
	AuditBookingUpdated   AuditAction = "booking_updated"
	AuditBookingCancelled AuditAction = "booking_cancelled"
	AuditScheduleCreated  AuditAction = "schedule_created"
	AuditScheduleUpdated  AuditAction = "schedule_updated"
	AuditScheduleDeleted  AuditAction = "schedule_deleted"
	AuditFacilityUpdated  AuditAction = "facility_updated"
)

type AuditDetails map[string]any

func (d AuditDetails) Value() (driver.Value, error) { return jsonValue(d) }
func (d *AuditDetails) Scan(src any) error         { return scanJSON(src, d) }

type AuditEntry struct {
	ID        int          `db:"id"         json:"id"`
	Code      string       `db:"code"       json:"code"`
	Action    AuditAction  `db:"action"     json:"action"`
	UserID    int          `db:"user_id"    json:"user_id"`
	FieldID   *int         `db:"field_id"   json:"field_id,omitempty"`
	Details   AuditDetails `db:"details"    json:"details"`
	Timestamp time.Time    `db:"timestamp"  json:"timestamp"`
}
