package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the per-user record whose role drives every access decision.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest is the payload for password sign-in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// RegisterRequest is the payload for self sign-up. New accounts are always students.
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email,max=255"`
	Password string  `json:"password" binding:"required,min=6,max=128"`
	FullName string  `json:"full_name" binding:"required,min=2,max=150"`
	Phone    *string `json:"phone" binding:"omitempty,max=30"`
}

// Session identifies the signed-in user behind a token.
type Session struct {
	ID        string    `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResponse is returned after a successful sign-in or sign-up.
type AuthResponse struct {
	Token   string   `json:"token"`
	Session Session  `json:"session"`
	Profile *Profile `json:"profile"`
}

// AuthEventType names a change in a user's authentication state.
type AuthEventType string

const (
	AuthEventSignedIn  AuthEventType = "SIGNED_IN"
	AuthEventSignedOut AuthEventType = "SIGNED_OUT"
)

// AuthEvent is published on the user's auth channel and streamed to clients.
type AuthEvent struct {
	Event     AuthEventType `json:"event"`
	SessionID string        `json:"session_id"`
	UserID    uuid.UUID     `json:"user_id"`
	At        time.Time     `json:"at"`
}
