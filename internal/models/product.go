package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductStatus is a listing's position in the moderation lifecycle.
type ProductStatus string

const (
	StatusPending  ProductStatus = "pending"
	StatusApproved ProductStatus = "approved"
	StatusRejected ProductStatus = "rejected"
	StatusSold     ProductStatus = "sold"
	StatusRemoved  ProductStatus = "removed"
)

var productTransitions = map[ProductStatus][]ProductStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusSold, StatusRemoved},
}

// ParseProductStatus returns the status named by s, or false when s is unknown.
func ParseProductStatus(s string) (ProductStatus, bool) {
	switch st := ProductStatus(s); st {
	case StatusPending, StatusApproved, StatusRejected, StatusSold, StatusRemoved:
		return st, true
	}
	return "", false
}

// CanTransition reports whether the lifecycle allows moving from s to next.
// Rejected, sold and removed are terminal; only an admin override leaves them.
func (s ProductStatus) CanTransition(next ProductStatus) bool {
	for _, allowed := range productTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Categories is the closed set of listing categories.
var Categories = []string{"Posters", "Statues", "Figures", "Cartes", "Comics", "Autres"}

// Conditions is the closed set of item conditions.
var Conditions = []string{"Neuf", "Très bon état", "Bon état", "État moyen", "À restaurer"}

const DefaultCondition = "Très bon état"

// ProductImage is one uploaded picture of a listing.
type ProductImage struct {
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Product is a listing put up for sale by a seller.
type Product struct {
	ID              uuid.UUID                         `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string                            `gorm:"size:200;not null" json:"title"`
	Description     string                            `gorm:"type:text;not null" json:"description"`
	Category        string                            `gorm:"size:50;not null;index:idx_products_category_status,priority:1" json:"category"`
	Condition       string                            `gorm:"size:50;not null" json:"condition"`
	Price           float64                           `gorm:"not null;index" json:"price"`
	ShippingCost    float64                           `gorm:"not null;default:0" json:"shipping_cost"`
	PriceHistory    []PriceChange                     `gorm:"foreignKey:ProductID" json:"price_history"`
	Images          datatypes.JSONSlice[ProductImage] `json:"images"`
	SellerID        uuid.UUID                         `gorm:"type:uuid;not null;index" json:"seller_id"`
	SellerName      string                            `gorm:"size:255" json:"seller_name"`
	Status          ProductStatus                     `gorm:"size:20;not null;index;index:idx_products_category_status,priority:2" json:"status"`
	ValidatedBy     *uuid.UUID                        `gorm:"type:uuid" json:"validated_by,omitempty"`
	ValidatedAt     *time.Time                        `gorm:"index" json:"validated_at,omitempty"`
	RejectionReason string                            `gorm:"size:500" json:"rejection_reason,omitempty"`
	Views           int64                             `gorm:"not null;default:0" json:"views"`
	SoldAt          *time.Time                        `json:"sold_at,omitempty"`
	SoldTo          *uuid.UUID                        `gorm:"type:uuid" json:"sold_to,omitempty"`
	CreatedAt       time.Time                         `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time                         `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// OwnedBy reports whether userID is the listing's seller.
func (p *Product) OwnedBy(userID uuid.UUID) bool {
	return p.SellerID == userID
}

// PriceChange is one entry of a product's append-only price log.
type PriceChange struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Price     float64   `gorm:"not null" json:"price"`
	ChangedAt time.Time `gorm:"not null" json:"changed_at"`
}

// ProductInterest records a buyer who contacted the seller about a listing.
type ProductInterest struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
