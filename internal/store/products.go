package store

import (
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sort keys accepted by ProductFilter.Sort.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortViews     = "views"
)

// ProductFilter narrows a product query. Zero fields do not filter.
type ProductFilter struct {
	Statuses  []models.ProductStatus
	SellerID  *uuid.UUID
	Category  string
	Condition string
	MinPrice  *float64
	MaxPrice  *float64
	Search    string
	Sort      string
	Page      int
	Limit     int
}

func (f ProductFilter) scope(db *gorm.DB) *gorm.DB {
	if len(f.Statuses) > 0 {
		db = db.Where("status IN ?", statusNames(f.Statuses))
	}
	if f.SellerID != nil {
		db = db.Where("seller_id = ?", *f.SellerID)
	}
	if f.Category != "" {
		db = db.Where("category = ?", f.Category)
	}
	if f.Condition != "" {
		db = db.Where(clause.Eq{Column: clause.Column{Name: "condition"}, Value: f.Condition})
	}
	if f.MinPrice != nil {
		db = db.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where("price <= ?", *f.MaxPrice)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + escapeLike(strings.ToLower(term)) + "%"
		db = db.Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\')", like, like)
	}
	return db
}

func (f ProductFilter) order() string {
	switch f.Sort {
	case SortPriceAsc:
		return "price ASC, created_at DESC"
	case SortPriceDesc:
		return "price DESC, created_at DESC"
	case SortViews:
		return "views DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

func statusNames(statuses []models.ProductStatus) []string {
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}
	return names
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func withHistory(db *gorm.DB) *gorm.DB {
	return db.Preload("PriceHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

type ProductStore struct {
	db *gorm.DB
}

// Create inserts the product and the first price-history entry together.
func (s *ProductStore) Create(product *models.Product) error {
	if len(product.PriceHistory) == 0 {
		product.PriceHistory = []models.PriceChange{{Price: product.Price, ChangedAt: time.Now()}}
	}
	return translate("create product", s.db.Create(product).Error)
}

func (s *ProductStore) ByID(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Scopes(withHistory).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate("get product", err)
	}
	return &product, nil
}

// IncrementViews bumps the view counter in place.
func (s *ProductStore) IncrementViews(id uuid.UUID) error {
	err := s.db.Model(&models.Product{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	return translate("increment views", err)
}

// Update applies a column map to one product and returns the stored result.
func (s *ProductStore) Update(id uuid.UUID, fields map[string]interface{}) (*models.Product, error) {
	result := s.db.Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, translate("update product", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.ByID(id)
}

// SetStatus writes the moderation columns of one product.
func (s *ProductStore) SetStatus(id uuid.UUID, status models.ProductStatus, fields map[string]interface{}) (*models.Product, error) {
	update := map[string]interface{}{"status": string(status)}
	for k, v := range fields {
		update[k] = v
	}
	return s.Update(id, update)
}

// AppendPrice records newPrice in the history and makes it the current price.
func (s *ProductStore) AppendPrice(id uuid.UUID, newPrice float64, at time.Time) (*models.Product, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Product{}).Where("id = ?", id).Update("price", newPrice)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&models.PriceChange{ProductID: id, Price: newPrice, ChangedAt: at}).Error
	})
	if err != nil {
		return nil, translate("append price", err)
	}
	return s.ByID(id)
}

// Delete removes the product permanently along with rows that reference it.
func (s *ProductStore) Delete(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&models.PriceChange{}, &models.Favorite{}, &models.CartItem{}, &models.ProductInterest{}} {
			if err := tx.Where("product_id = ?", id).Delete(child).Error; err != nil {
				return translate("delete product children", err)
			}
		}
		result := tx.Delete(&models.Product{}, "id = ?", id)
		if result.Error != nil {
			return translate("delete product", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Query returns one page of products matching filter plus the total match count.
func (s *ProductStore) Query(filter ProductFilter) ([]models.Product, int64, error) {
	var total int64
	if err := s.db.Model(&models.Product{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, translate("count products", err)
	}

	query := s.db.Scopes(filter.scope, withHistory).Order(filter.order())
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.Limit).Limit(filter.Limit)
	}

	products := []models.Product{}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, translate("query products", err)
	}
	return products, total, nil
}

// History returns moderated products, most recently validated first.
func (s *ProductStore) History(statuses []models.ProductStatus, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.Scopes(withHistory).
		Where("status IN ?", statusNames(statuses)).
		Order("validated_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, translate("moderation history", err)
}

func (s *ProductStore) CountByStatus() (map[models.ProductStatus]int64, error) {
	var rows []struct {
		Status models.ProductStatus
		Count  int64
	}
	err := s.db.Model(&models.Product{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, translate("count products by status", err)
	}
	counts := make(map[models.ProductStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (s *ProductStore) Recent(limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.Order("created_at DESC").Limit(limit).Find(&products).Error
	return products, translate("recent products", err)
}

// AddInterest adds userID to the product's interested-buyer set.
func (s *ProductStore) AddInterest(productID, userID uuid.UUID) error {
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProductInterest{ProductID: productID, UserID: userID}).Error
	return translate("add interest", err)
}

// InterestedBuyers lists the users who contacted the seller about a product.
func (s *ProductStore) InterestedBuyers(productID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.Model(&models.ProductInterest{}).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	return ids, translate("interested buyers", err)
}

// ByStatus lists products in one moderation state, oldest first so the review queue is FIFO.
func (s *ProductStore) ByStatus(status models.ProductStatus) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.Scopes(withHistory).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&products).Error
	return products, translate("products by status", err)
}

// BySeller lists a seller's products, newest first. An empty statuses slice means every status.
func (s *ProductStore) BySeller(sellerID uuid.UUID, statuses []models.ProductStatus) ([]models.Product, error) {
	products, _, err := s.Query(ProductFilter{SellerID: &sellerID, Statuses: statuses})
	return products, err
}
