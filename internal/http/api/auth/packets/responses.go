package packets

import "github.com/Nixie-Tech-LLC/fieldbook/internal/model"

type TokenResponse struct {
	Token string `json:"token"`
}

// returned for profile endpoints
type ProfileResponse struct {
	ID          int                 `json:"id"`
	Email       string              `json:"email"`
	Name        *string             `json:"name"`
	Role        model.Role          `json:"role"`
	BrandID     *int                `json:"brand_id,omitempty"`
	Permissions *model.Capabilities `json:"permissions,omitempty"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}
