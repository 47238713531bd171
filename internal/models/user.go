package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role gates moderation and admin endpoints.
type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// ParseRole returns the Role named by s, or false when s is not a known role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleUser, RoleSeller, RoleAdmin:
		return r, true
	}
	return "", false
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// SellerInfo is the public shop profile of a user who sells.
type SellerInfo struct {
	ShopName    string    `gorm:"size:100" json:"shop_name,omitempty"`
	Description string    `gorm:"size:1000" json:"description,omitempty"`
	Rating      float64   `gorm:"default:0" json:"rating"`
	TotalSales  int       `gorm:"default:0" json:"total_sales"`
	JoinedAt    time.Time `json:"joined_at"`
}

// User is a marketplace account. Password holds the bcrypt hash and is never serialized.
type User struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username   string     `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email      string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password   string     `gorm:"not null" json:"-"`
	FirstName  string     `gorm:"size:100" json:"first_name,omitempty"`
	LastName   string     `gorm:"size:100" json:"last_name,omitempty"`
	Avatar     string     `gorm:"size:500" json:"avatar,omitempty"`
	Role       Role       `gorm:"size:20;not null;default:'user';index" json:"role"`
	IsSeller   bool       `gorm:"default:false" json:"is_seller"`
	SellerInfo SellerInfo `gorm:"embedded;embeddedPrefix:seller_" json:"seller_info"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.SellerInfo.JoinedAt.IsZero() {
		u.SellerInfo.JoinedAt = time.Now()
	}
	return nil
}

// DisplayName prefers the real name and falls back to the username.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}

// Favorite is one entry of a user's favorites set.
type Favorite struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CartItem is one line of a user's cart, ordered by creation time.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product;index" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return nil
}
