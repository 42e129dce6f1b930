// Package access holds the role guard and staff capability checks applied at
// the start of protected operations.
package access

import (
	"slices"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/apperr"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

type Capability int

const (
	ManageStaff Capability = iota
	ManageBookings
	UpdateSchedules
	RespondToReviews
	AccessReports
	UpdatePricing
	ModifyFacilities
)

func (c Capability) String() string {
	switch c {
	case ManageStaff:
		return "canManageStaff"
	case ManageBookings:
		return "canManageBookings"
	case UpdateSchedules:
		return "canUpdateSchedules"
	case RespondToReviews:
		return "canRespondToReviews"
	case AccessReports:
		return "canAccessReports"
	case UpdatePricing:
		return "canUpdatePricing"
	case ModifyFacilities:
		return "canModifyFacilities"
	}
	return "unknown"
}

// Granted reads the capability flag off caps.
func (c Capability) Granted(caps model.Capabilities) bool {
	switch c {
	case ManageStaff:
		return caps.CanManageStaff
	case ManageBookings:
		return caps.CanManageBookings
	case UpdateSchedules:
		return caps.CanUpdateSchedules
	case RespondToReviews:
		return caps.CanRespondToReviews
	case AccessReports:
		return caps.CanAccessReports
	case UpdatePricing:
		return caps.CanUpdatePricing
	case ModifyFacilities:
		return caps.CanModifyFacilities
	}
	return false
}

var staffRoles = []model.Role{
	model.RoleFacilityManager,
	model.RoleMaintenanceStaff,
	model.RoleCustomerService,
}

func IsStaff(role model.Role) bool {
	return slices.Contains(staffRoles, role)
}

// DefaultCapabilities is the capability record given to newly created staff.
// Non-staff roles get none.
func DefaultCapabilities(role model.Role) model.Capabilities {
	switch role {
	case model.RoleFacilityManager:
		return model.Capabilities{
			CanManageStaff:      true,
			CanManageBookings:   true,
			CanUpdateSchedules:  true,
			CanRespondToReviews: true,
			CanAccessReports:    true,
			CanUpdatePricing:    true,
			CanModifyFacilities: true,
		}
	case model.RoleMaintenanceStaff:
		return model.Capabilities{CanUpdateSchedules: true}
	case model.RoleCustomerService:
		return model.Capabilities{
			CanManageBookings:   true,
			CanRespondToReviews: true,
			CanAccessReports:    true,
		}
	}
	return model.Capabilities{}
}

// RequireAnyRole fails with Unauthorized unless actor holds one of roles.
func RequireAnyRole(actor model.User, roles ...model.Role) error {
	if slices.Contains(roles, actor.Role) {
		return nil
	}
	return apperr.Unauthorized.With("role %q may not perform this action", actor.Role)
}

// RequireCapabilities lets company owners through unconditionally. Staff need
// every listed capability; everyone else is refused.
func RequireCapabilities(actor model.User, caps ...Capability) error {
	if actor.Role == model.RoleCompany {
		return nil
	}
	if !IsStaff(actor.Role) || actor.Permissions == nil {
		return apperr.Unauthorized
	}
	for _, c := range caps {
		if !c.Granted(*actor.Permissions) {
			return apperr.Unauthorized.With("missing permission %s", c)
		}
	}
	return nil
}

// Require combines the role guard and the capability check.
func Require(actor model.User, roles []model.Role, caps ...Capability) error {
	if err := RequireAnyRole(actor, roles...); err != nil {
		return err
	}
	return RequireCapabilities(actor, caps...)
}

var (
	BookingCreators   = []model.Role{model.RoleConsumer}
	BookingConfirmers = []model.Role{model.RoleCompany, model.RoleFacilityManager, model.RoleCustomerService}
	ScheduleEditors   = []model.Role{model.RoleCompany, model.RoleFacilityManager, model.RoleMaintenanceStaff}
)
