package model

import "time"

// Field is a bookable facility operated by a brand.
type Field struct {
	ID          int       `db:"id"          json:"id"`
	Code        string    `db:"code"        json:"code"`
	Name        string    `db:"name"        json:"name"`
	Address     string    `db:"address"     json:"address"`
	BrandID     int       `db:"brand_id"    json:"brand_id"`
	SportType   string    `db:"sport_type"  json:"sport_type"`
	Status      int       `db:"status"      json:"status"`
	CreatedBy   int       `db:"created_by"  json:"created_by"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
	UpdatedBy   *int      `db:"updated_by"  json:"updated_by,omitempty"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updated_at"`
}

func (f Field) Active() bool {
	return f.Status == StatusActive
}

// FieldPricing is the price of booking a field for a fixed duration.
type FieldPricing struct {
	ID                int     `db:"id"                  json:"id"`
	FieldID           int     `db:"field_id"            json:"field_id"`
	Price             float64 `db:"price"               json:"price"`
	DurationInMinutes int     `db:"duration_in_minutes" json:"duration_in_minutes"`
	Status            int     `db:"status"              json:"status"`
}
