package types

import (
	"time"

	"github.com/FACorreiaa/studyhub/internal/models"
)

// PublicUser is the client-facing view of a user. It never carries the password hash.
type PublicUser struct {
	ID           int64      `json:"id" example:"1"`
	UserID       string     `json:"userId" example:"testuser1"`
	Username     string     `json:"username" example:"Tester"`
	Email        *string    `json:"email"`
	ProfileImage *string    `json:"profileImage"`
	Bio          *string    `json:"bio"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin"`
}

func NewPublicUser(u *models.User) *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:           u.ID,
		UserID:       u.UserID,
		Username:     u.Username,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		Bio:          u.Bio,
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
	}
}
