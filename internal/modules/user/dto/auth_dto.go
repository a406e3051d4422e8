package dto

import "anoa.com/socialgram/internal/entity"

type RegisterInput struct {
	Name      string  `json:"name" binding:"required,max=100"`
	Username  string  `json:"username" binding:"required,min=3,max=50"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}
