package store

import (
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteStore struct {
	db *gorm.DB
}

// Add inserts the pair unless it is already present.
func (s *FavoriteStore) Add(userID, productID uuid.UUID) error {
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Favorite{UserID: userID, ProductID: productID}).Error
	return translate("add favorite", err)
}

func (s *FavoriteStore) Remove(userID, productID uuid.UUID) error {
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.Favorite{}).Error
	return translate("remove favorite", err)
}

// Products returns the user's favorite products, most recently added first.
func (s *FavoriteStore) Products(userID uuid.UUID) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.Scopes(withHistory).
		Joins("JOIN favorites ON favorites.product_id = products.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&products).Error
	return products, translate("list favorites", err)
}

type CartStore struct {
	db *gorm.DB
}

// Add puts quantity units of the product in the cart, adding to an existing line.
func (s *CartStore) Add(userID, productID uuid.UUID, quantity int) error {
	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}),
	}).Create(&item).Error
	return translate("add cart item", err)
}

func (s *CartStore) Remove(userID, productID uuid.UUID) error {
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{}).Error
	return translate("remove cart item", err)
}

func (s *CartStore) Items(userID uuid.UUID) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := s.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, translate("list cart", err)
}

func (s *CartStore) Clear(userID uuid.UUID) error {
	err := s.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	return translate("clear cart", err)
}
