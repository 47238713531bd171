package dto

import "github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user seller admin"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"max=120"`
	Description string `json:"description" validate:"max=500"`
	Icon        string `json:"icon" validate:"max=20"`
}

type ProductStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Sold     int64 `json:"sold"`
	Removed  int64 `json:"removed"`
}

type Stats struct {
	Products ProductStats `json:"products"`
	Users    int64        `json:"users"`
	Messages int64        `json:"messages"`
}

type StatsResponse struct {
	Stats          Stats            `json:"stats"`
	RecentProducts []models.Product `json:"recentProducts"`
}
