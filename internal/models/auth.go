package models

import "strconv"

// LoginRequest defines the structure for admin login requests
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued admin token
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// TelegramUser is the identity extracted from a validated Telegram WebApp
// initData payload.
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// TelegramID returns the user id in the string form used as the stable
// identity key across the system.
func (u *TelegramUser) TelegramID() string {
	return strconv.FormatInt(u.ID, 10)
}

// DisplayName returns the best available human-readable name for the user.
func (u *TelegramUser) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return "Unknown User"
}
