package model

import "time"

// AuthToken binds an opaque key to exactly one user.
type AuthToken struct {
	Key       string    `db:"token_key"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// TokenRequest is the credential schema for token issuance.
type TokenRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries the bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}
