package services

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/store"
	"github.com/google/uuid"
)

const recentProductsLimit = 10

// AdminService backs the admin panel. Callers are gated by the admin
// middleware before reaching it.
type AdminService struct {
	store *store.Store
}

func NewAdminService(st *store.Store) *AdminService {
	return &AdminService{store: st}
}

func (s *AdminService) Stats() (*dto.StatsResponse, error) {
	counts, err := s.store.Products.CountByStatus()
	if err != nil {
		return nil, storeError("products", err)
	}
	users, err := s.store.Users.Count()
	if err != nil {
		return nil, storeError("users", err)
	}
	messages, err := s.store.Messages.Count()
	if err != nil {
		return nil, storeError("messages", err)
	}
	recent, err := s.store.Products.Recent(recentProductsLimit)
	if err != nil {
		return nil, storeError("products", err)
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	return &dto.StatsResponse{
		Stats: dto.Stats{
			Products: dto.ProductStats{
				Total:    total,
				Pending:  counts[models.StatusPending],
				Approved: counts[models.StatusApproved],
				Rejected: counts[models.StatusRejected],
				Sold:     counts[models.StatusSold],
				Removed:  counts[models.StatusRemoved],
			},
			Users:    users,
			Messages: messages,
		},
		RecentProducts: recent,
	}, nil
}

func (s *AdminService) Users() ([]models.User, error) {
	users, err := s.store.Users.List()
	if err != nil {
		return nil, storeError("users", err)
	}
	return users, nil
}

// ChangeRole sets a user's role. An admin cannot demote themself.
func (s *AdminService) ChangeRole(actor Actor, userID uuid.UUID, req *dto.UpdateRoleRequest) (*models.User, error) {
	if err := dto.Validate(req); err != nil {
		return nil, validationError("%s", err.Error())
	}
	role, _ := models.ParseRole(req.Role)
	if userID == actor.ID && role != models.RoleAdmin {
		return nil, validationError("cannot remove your own admin role")
	}

	user, err := s.store.Users.UpdateRole(userID, role)
	if err != nil {
		return nil, storeError("user", err)
	}
	return user, nil
}

// DeleteUser removes an account with its favorites and cart. Listings and
// messages stay.
func (s *AdminService) DeleteUser(actor Actor, userID uuid.UUID) error {
	if userID == actor.ID {
		return validationError("cannot delete your own account")
	}
	if err := s.store.Users.Delete(userID); err != nil {
		return storeError("user", err)
	}
	return nil
}

func (s *AdminService) Categories() ([]models.Category, error) {
	categories, err := s.store.Categories.List()
	if err != nil {
		return nil, storeError("categories", err)
	}
	return categories, nil
}

func (s *AdminService) CreateCategory(actor Actor, req *dto.CreateCategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := dto.Validate(req); err != nil {
		return nil, validationError("%s", err.Error())
	}
	icon := strings.TrimSpace(req.Icon)
	if icon == "" {
		icon = "📦"
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        strings.TrimSpace(req.Slug),
		Description: strings.TrimSpace(req.Description),
		Icon:        icon,
		CreatedBy:   actor.ID,
	}
	if err := s.store.Categories.Create(category); err != nil {
		return nil, storeError("category", err)
	}
	return category, nil
}

func (s *AdminService) DeleteCategory(id uuid.UUID) error {
	if err := s.store.Categories.Delete(id); err != nil {
		return storeError("category", err)
	}
	return nil
}
