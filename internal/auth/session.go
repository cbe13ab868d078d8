package auth

import "time"

// SessionData represents the authenticated session context for a request
type SessionData struct {
	AdminID   string    `json:"admin_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TokenID   string    `json:"token_id"` // jti of the presented access token
	ExpiresAt time.Time `json:"expires_at"`
}
