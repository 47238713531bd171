package services

import (
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/store"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

var publicStatuses = []models.ProductStatus{models.StatusApproved}

// CatalogService answers public product reads. Only approved listings are
// visible unless the viewer owns the listing or is an admin.
type CatalogService struct {
	store *store.Store
}

func NewCatalogService(st *store.Store) *CatalogService {
	return &CatalogService{store: st}
}

func (s *CatalogService) ListProducts(q dto.ProductQuery) (*dto.ProductListResponse, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	sort := store.SortNewest
	switch q.SortBy {
	case store.SortPriceAsc, store.SortPriceDesc, store.SortViews:
		sort = q.SortBy
	}

	products, total, err := s.store.Products.Query(store.ProductFilter{
		Statuses:  publicStatuses,
		Category:  strings.TrimSpace(q.Category),
		Condition: strings.TrimSpace(q.Condition),
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		Search:    q.Search,
		Sort:      sort,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, storeError("products", err)
	}

	return &dto.ProductListResponse{
		Products: products,
		Pagination: dto.Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}, nil
}

// GetProduct returns a product visible to viewer and counts the view.
// viewer is nil for anonymous callers. Hidden products look absent.
func (s *CatalogService) GetProduct(productID uuid.UUID, viewer *Actor) (*models.Product, error) {
	product, err := s.store.Products.ByID(productID)
	if err != nil {
		return nil, storeError("product", err)
	}
	if !canSee(product, viewer) {
		return nil, notFoundError("product not found")
	}

	if viewer == nil || !product.OwnedBy(viewer.ID) {
		if err := s.store.Products.IncrementViews(productID); err != nil {
			slog.Error("failed to increment views", "product_id", productID, "error", err)
		} else {
			product.Views++
		}
	}
	return product, nil
}

// BySeller lists a seller's products. The seller and admins see every status.
func (s *CatalogService) BySeller(sellerID uuid.UUID, viewer *Actor) ([]models.Product, error) {
	statuses := publicStatuses
	if viewer != nil && (viewer.ID == sellerID || viewer.IsAdmin()) {
		statuses = nil
	}
	products, err := s.store.Products.BySeller(sellerID, statuses)
	if err != nil {
		return nil, storeError("products", err)
	}
	return products, nil
}

// canSee lets anyone open an approved or sold listing by id; sold listings
// still drop out of catalog queries.
func canSee(p *models.Product, viewer *Actor) bool {
	if p.Status == models.StatusApproved || p.Status == models.StatusSold {
		return true
	}
	return viewer != nil && (p.OwnedBy(viewer.ID) || viewer.IsAdmin())
}
