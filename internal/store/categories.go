package store

import (
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryStore struct {
	db *gorm.DB
}

func (s *CategoryStore) Create(category *models.Category) error {
	return translate("create category", s.db.Create(category).Error)
}

func (s *CategoryStore) ByName(name string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translate("get category", err)
	}
	return &category, nil
}

// Update edits description and icon. Name and slug are left as created.
func (s *CategoryStore) Update(id uuid.UUID, description, icon string) error {
	result := s.db.Model(&models.Category{}).Where("id = ?", id).
		Updates(map[string]interface{}{"description": description, "icon": icon})
	if result.Error != nil {
		return translate("update category", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CategoryStore) List() ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.Order("name ASC").Find(&categories).Error
	return categories, translate("list categories", err)
}

func (s *CategoryStore) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return translate("delete category", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
