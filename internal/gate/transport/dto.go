package transport

import "time"

// UnlockRequest carries the shared passphrase.
type UnlockRequest struct {
	Passphrase string `json:"passphrase" validate:"required,max=256"`
}

// UnlockResponse carries the gate token for admin routes.
type UnlockResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
