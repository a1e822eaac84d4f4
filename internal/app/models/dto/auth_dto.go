package dto

import "time"

// LoginRequest represents the login form
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"mario.rossi1042"`
	Password string `json:"password" binding:"required" example:"Str0ngPass!"`
}

// TokenResponse carries an access/refresh token pair
type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType" example:"Bearer"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// UserResponse represents an account in API responses
type UserResponse struct {
	ID           int64     `json:"id" example:"1"`
	Username     string    `json:"username" example:"mario.rossi1042"`
	RoleType     string    `json:"roleType" example:"INSTRUCTOR" enums:"ADMIN,INSTRUCTOR"`
	Status       string    `json:"status" example:"active" enums:"active,pending,disabled"`
	InstructorID *int64    `json:"instructorId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LoginResponse bundles the authenticated user with its tokens
type LoginResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

// RefreshTokenRequest represents a token refresh form
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ChangePasswordRequest represents a password change form
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}
