package model

// AdminLoginRequest carries the shared admin passcode.
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse returns the signed token required on every
// privileged call. The client never holds a bare "admin mode" flag.
type AdminLoginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}
