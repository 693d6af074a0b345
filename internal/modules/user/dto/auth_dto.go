package dto

import (
	"time"

	"anoa.com/weddingsalon/internal/entity"
	"github.com/google/uuid"
)

// RegisterInput carries the registration form. Email structure and password
// confirmation are checked by the service so the errors come back in a fixed order.
type RegisterInput struct {
	Username        string `json:"username" form:"username" binding:"required,min=3,max=50"`
	Email           string `json:"email" form:"email" binding:"required,max=100"`
	Password        string `json:"password" form:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" form:"confirmPassword" binding:"required"`
}

type LoginInput struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func ToUserResponses(users []*entity.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	User        *UserResponse `json:"user"`
}
