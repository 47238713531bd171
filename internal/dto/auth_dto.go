package dto

import "github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"

// RegisterRequest accepts "name" as an alias for "username".
type RegisterRequest struct {
	Username  string `json:"username" validate:"max=50"`
	Name      string `json:"name" validate:"max=50"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName       *string `json:"firstName" validate:"omitempty,max=100"`
	LastName        *string `json:"lastName" validate:"omitempty,max=100"`
	Avatar          *string `json:"avatar" validate:"omitempty,url,max=500"`
	ShopName        *string `json:"shopName" validate:"omitempty,max=100"`
	ShopDescription *string `json:"shopDescription" validate:"omitempty,max=1000"`
}

type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
