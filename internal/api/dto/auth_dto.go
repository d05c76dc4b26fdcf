package dto

import "time"

// RegisterRequest payload for new identities of either kind.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login. The email is resolved across both
// identity kinds server-side.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest payload for exchanging a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	SubjectID        int64     `json:"subject_id"`
	Role             string    `json:"role"`
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}
