package model

import "time"

type Role string

const (
	RoleAdmin            Role = "admin"
	RoleCompany          Role = "company"
	RoleConsumer         Role = "consumer"
	RoleFacilityManager  Role = "facility_manager"
	RoleMaintenanceStaff Role = "maintenance_staff"
	RoleCustomerService  Role = "customer_service"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCompany, RoleConsumer, RoleFacilityManager, RoleMaintenanceStaff, RoleCustomerService:
		return true
	}
	return false
}

type User struct {
	ID             int           `db:"id"              json:"id"`
	Email          string        `db:"email"           json:"email"`
	HashedPassword string        `db:"hashed_password" json:"-"`
	Name           *string       `db:"name"            json:"name,omitempty"`
	Role           Role          `db:"role"            json:"role"`
	BrandID        *int          `db:"brand_id"        json:"brand_id,omitempty"`
	Permissions    *Capabilities `db:"permissions"     json:"permissions,omitempty"`
	Status         int           `db:"status"          json:"status"`
	CreatedAt      time.Time     `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"      json:"updated_at"`
}
