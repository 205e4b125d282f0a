package response

import (
	"time"

	"course-platform/internal/data/entity"
)

// UserResponse is the sanitized view of a user; it never carries the hash.
type UserResponse struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Address        *string         `json:"address,omitempty"`
	PhoneNumber    string          `json:"phoneNumber"`
	Role           entity.UserRole `json:"role"`
	IsActive       bool            `json:"isActive"`
	IsVerified     bool            `json:"isVerified"`
	ProfilePicture *string         `json:"profilePicture,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:             user.ID.String(),
		Username:       user.Username,
		Email:          user.Email,
		Address:        user.Address,
		PhoneNumber:    user.PhoneNumber,
		Role:           user.Role,
		IsActive:       user.IsActive,
		IsVerified:     user.IsVerified,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
