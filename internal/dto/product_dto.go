package dto

import "github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"

type CreateProductRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"required,max=5000"`
	Category     string   `json:"category" validate:"required,category"`
	Condition    string   `json:"condition" validate:"omitempty,condition"`
	Price        *float64 `json:"price" validate:"required,gte=0"`
	ShippingCost *float64 `json:"shippingCost" validate:"omitempty,gte=0"`
	Images       []string `json:"images" validate:"max=10,dive,required,max=500"`
}

// UpdateProductRequest is a partial update; nil fields are left untouched.
type UpdateProductRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string  `json:"description" validate:"omitempty,min=1,max=5000"`
	Category     *string  `json:"category" validate:"omitempty,category"`
	Condition    *string  `json:"condition" validate:"omitempty,condition"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	ShippingCost *float64 `json:"shippingCost" validate:"omitempty,gte=0"`
	Images       []string `json:"images" validate:"omitempty,max=10,dive,required,max=500"`
	Status       *string  `json:"status" validate:"omitempty,oneof=pending approved rejected sold removed"`
	SoldTo       *string  `json:"soldTo" validate:"omitempty,uuid"`
}

type RejectProductRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// ProductQuery carries the catalog query string.
type ProductQuery struct {
	Category  string   `query:"category"`
	MinPrice  *float64 `query:"minPrice"`
	MaxPrice  *float64 `query:"maxPrice"`
	Condition string   `query:"condition"`
	Search    string   `query:"search"`
	SortBy    string   `query:"sortBy"`
	Page      int      `query:"page"`
	Limit     int      `query:"limit"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type ProductListResponse struct {
	Products   []models.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=99"`
}

type CartResponse struct {
	Items []models.CartItem `json:"items"`
	Total float64           `json:"total"`
}
