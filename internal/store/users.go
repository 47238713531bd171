package store

import (
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func (s *UserStore) Create(user *models.User) error {
	return translate("create user", s.db.Create(user).Error)
}

func (s *UserStore) ByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translate("get user", err)
	}
	return &user, nil
}

func (s *UserStore) ByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate("get user by email", err)
	}
	return &user, nil
}

func (s *UserStore) ByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate("get user by username", err)
	}
	return &user, nil
}

func (s *UserStore) List() ([]models.User, error) {
	users := []models.User{}
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, translate("list users", err)
	}
	return users, nil
}

// Update applies a column map to one user and returns the stored result.
func (s *UserStore) Update(id uuid.UUID, fields map[string]interface{}) (*models.User, error) {
	result := s.db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, translate("update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.ByID(id)
}

func (s *UserStore) UpdateRole(id uuid.UUID, role models.Role) (*models.User, error) {
	return s.Update(id, map[string]interface{}{"role": string(role)})
}

// RecordSale bumps the seller's sale counter in place.
func (s *UserStore) RecordSale(id uuid.UUID) error {
	err := s.db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("seller_total_sales", gorm.Expr("seller_total_sales + ?", 1)).Error
	return translate("record sale", err)
}

// Delete hard-deletes a user together with their favorites and cart.
// Messages and listings are kept.
func (s *UserStore) Delete(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return translate("delete favorites", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return translate("delete cart", err)
		}
		result := tx.Delete(&models.User{}, "id = ?", id)
		if result.Error != nil {
			return translate("delete user", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *UserStore) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.User{}).Count(&n).Error
	return n, translate("count users", err)
}
