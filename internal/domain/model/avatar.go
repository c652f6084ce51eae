package model

import (
	"time"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
)

// AvatarDataURLPrefix is the only accepted avatar encoding.
const AvatarDataURLPrefix = "data:image/"

// Avatar is a user-uploaded profile image kept as a data URL.
type Avatar struct {
	Role      domainauth.Role `json:"role"`
	UserID    string          `json:"user_id"`
	DataURL   string          `json:"data_url"`
	UpdatedAt time.Time       `json:"updated_at"`
}
