package model

import "database/sql/driver"

// Capabilities is the fixed set of staff permissions. Stored as a jsonb
// object keyed by the json names below.
type Capabilities struct {
	CanManageStaff      bool `json:"canManageStaff"`
	CanManageBookings   bool `json:"canManageBookings"`
	CanUpdateSchedules  bool `json:"canUpdateSchedules"`
	CanRespondToReviews bool `json:"canRespondToReviews"`
	CanAccessReports    bool `json:"canAccessReports"`
	CanUpdatePricing    bool `json:"canUpdatePricing"`
	CanModifyFacilities bool `json:"canModifyFacilities"`
}

func (c Capabilities) Value() (driver.Value, error) { return jsonValue(c) }
func (c *Capabilities) Scan(src any) error         { return scanJSON(src, c) }
