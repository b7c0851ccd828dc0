package api

type LoginRequest struct {
	Passcode string `json:"passcode"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type GetAuthStatusRequest struct{}

type GetAuthStatusResponse struct {
	// Enabled is false when no passcode is configured and every service is open.
	Enabled bool `json:"enabled"`
}
