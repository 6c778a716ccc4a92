package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds DNI based credentials.
type LoginRequest struct {
	DNI      string `json:"dni" validate:"required,min=6,max=20"`
	Password string `json:"password" validate:"required"`

	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued token and principal info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// ChangePasswordRequest payload for updating password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UserInfo describes the authenticated principal in responses.
type UserInfo struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	FullName  string   `json:"full_name,omitempty"`
	Role      UserRole `json:"role"`
	RelatedID string   `json:"related_id,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
// RelatedID points at the teacher or student record behind the principal.
type JWTClaims struct {
	UserID    string   `json:"user_id"`
	Role      UserRole `json:"role"`
	RelatedID string   `json:"related_id,omitempty"`
	jwt.RegisteredClaims
}
