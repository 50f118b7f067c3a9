package models

import (
	"time"
)

// User is a row of the users table.
type User struct {
	ID           int64      `json:"id" db:"id"`
	UserID       string     `json:"user_id" db:"user_id"` // login identifier, unique and immutable
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Email        *string    `json:"email" db:"email"`
	ProfileImage *string    `json:"profile_image" db:"profile_image"`
	Bio          *string    `json:"bio" db:"bio"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	LastLogin    *time.Time `json:"last_login" db:"last_login"`
	IsActive     bool       `json:"is_active" db:"is_active"`
}

// NewUser builds the record inserted at signup. Timestamps and the numeric
// id are assigned by the store.
func NewUser(userID, username, passwordHash string) *User {
	return &User{
		UserID:       userID,
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
}
