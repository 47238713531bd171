package services

import (
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	defaultRejectionReason = "unspecified"
	defaultHistoryLimit    = 50
	maxHistoryLimit        = 200
)

// ModerationService owns the product lifecycle: creation, owner edits and
// the admin approve/reject workflow. Status writes are last-write-wins.
type ModerationService struct {
	store  *store.Store
	cfg    *config.Config
	screen *contentScreen
	now    func() time.Time
}

func NewModerationService(st *store.Store, cfg *config.Config) *ModerationService {
	return &ModerationService{
		store:  st,
		cfg:    cfg,
		screen: newContentScreen(),
		now:    time.Now,
	}
}

// Create lists a new product for seller. Under the auto-approve policy the
// listing is public immediately unless the content screen flags it, in which
// case it waits in the review queue like any pending listing.
func (s *ModerationService) Create(seller Actor, req *dto.CreateProductRequest) (*models.Product, error) {
	if err := dto.Validate(req); err != nil {
		return nil, validationError("%s", err.Error())
	}

	user, err := s.store.Users.ByID(seller.ID)
	if err != nil {
		return nil, storeError("user", err)
	}

	now := s.now()
	product := &models.Product{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Condition:   req.Condition,
		Price:       *req.Price,
		SellerID:    user.ID,
		SellerName:  user.DisplayName(),
		Status:      models.StatusPending,
		Images:      toImages(req.Images, now),
	}
	if product.Condition == "" {
		product.Condition = models.DefaultCondition
	}
	if req.ShippingCost != nil {
		product.ShippingCost = *req.ShippingCost
	}
	product.PriceHistory = []models.PriceChange{{Price: product.Price, ChangedAt: now}}

	if s.cfg.ProductInitialStatus == string(models.StatusApproved) {
		if reason := s.screen.Check(product.Title, product.Description); reason != "" {
			slog.Warn("listing held for review", "seller_id", user.ID, "reason", reason)
			metrics.ModerationAction("hold")
		} else {
			product.Status = models.StatusApproved
			product.ValidatedAt = &now
			metrics.ModerationAction("auto_approve")
		}
	}

	if err := s.store.Products.Create(product); err != nil {
		return nil, storeError("product", err)
	}
	return product, nil
}

// Update applies a partial edit. Every check runs before the first write and
// the writes share one transaction, so a refused edit leaves the listing as it
// was. An owner edit that trips the content screen sends an approved listing
// back to the review queue.
func (s *ModerationService) Update(productID uuid.UUID, actor Actor, req *dto.UpdateProductRequest) (*models.Product, error) {
	if err := dto.Validate(req); err != nil {
		return nil, validationError("%s", err.Error())
	}

	product, err := s.editable(productID, actor)
	if err != nil {
		return nil, err
	}

	var next models.ProductStatus
	var soldTo *uuid.UUID
	if req.Status != nil {
		next, _ = models.ParseProductStatus(*req.Status)
		if err := checkStatusChange(product, actor, next); err != nil {
			return nil, err
		}
		if req.SoldTo != nil {
			id := uuid.MustParse(*req.SoldTo)
			soldTo = &id
		}
	}

	fields := map[string]interface{}{}
	title, description := product.Title, product.Description
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
		fields["title"] = title
	}
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
		fields["description"] = description
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Condition != nil {
		fields["condition"] = *req.Condition
	}
	if req.ShippingCost != nil {
		fields["shipping_cost"] = *req.ShippingCost
	}
	if req.Images != nil {
		fields["images"] = toImages(req.Images, s.now())
	}

	var held string
	if !actor.IsAdmin() && product.Status == models.StatusApproved && (req.Title != nil || req.Description != nil) {
		if held = s.screen.Check(title, description); held != "" {
			fields["status"] = string(models.StatusPending)
			fields["validated_at"] = nil
			fields["validated_by"] = nil
		}
	}

	priceChanged := req.Price != nil && *req.Price != product.Price

	var action string
	err = s.store.Transaction(func(tx *store.Store) error {
		if len(fields) > 0 {
			if _, err := tx.Products.Update(productID, fields); err != nil {
				return err
			}
		}
		if priceChanged {
			if _, err := tx.Products.AppendPrice(productID, *req.Price, s.now()); err != nil {
				return err
			}
		}
		if req.Status != nil {
			var err error
			action, err = s.writeStatus(tx, product, actor, next, soldTo)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, storeError("product", err)
	}

	if held != "" {
		slog.Warn("edited listing held for review", "product_id", productID, "seller_id", product.SellerID, "reason", held)
		metrics.ModerationAction("hold")
	}
	if action != "" {
		metrics.ModerationAction(action)
	}

	updated, err := s.store.Products.ByID(productID)
	if err != nil {
		return nil, storeError("product", err)
	}
	return updated, nil
}

// UpdatePrice records newPrice in the history and makes it current.
func (s *ModerationService) UpdatePrice(productID uuid.UUID, actor Actor, newPrice float64) (*models.Product, error) {
	if newPrice < 0 {
		return nil, validationError("price must be greater than or equal to 0")
	}
	if _, err := s.editable(productID, actor); err != nil {
		return nil, err
	}

	product, err := s.store.Products.AppendPrice(productID, newPrice, s.now())
	if err != nil {
		return nil, storeError("product", err)
	}
	return product, nil
}

// ChangeStatus moves a product along its lifecycle. Owners may only mark an
// approved listing sold or removed; admins may set any status.
func (s *ModerationService) ChangeStatus(productID uuid.UUID, actor Actor, next models.ProductStatus, soldTo *uuid.UUID) (*models.Product, error) {
	product, err := s.editable(productID, actor)
	if err != nil {
		return nil, err
	}
	if err := checkStatusChange(product, actor, next); err != nil {
		return nil, err
	}

	var action string
	err = s.store.Transaction(func(tx *store.Store) error {
		var err error
		action, err = s.writeStatus(tx, product, actor, next, soldTo)
		return err
	})
	if err != nil {
		return nil, storeError("product", err)
	}
	if action != "" {
		metrics.ModerationAction(action)
	}

	updated, err := s.store.Products.ByID(productID)
	if err != nil {
		return nil, storeError("product", err)
	}
	return updated, nil
}

// checkStatusChange refuses status changes the actor may not make. Admins
// override the transition table.
func checkStatusChange(product *models.Product, actor Actor, next models.ProductStatus) error {
	if actor.IsAdmin() {
		return nil
	}
	if next != models.StatusSold && next != models.StatusRemoved {
		return authzError("only an admin can set status " + string(next))
	}
	if product.Status != next && !product.Status.CanTransition(next) {
		return validationError("cannot change status from %s to %s", product.Status, next)
	}
	return nil
}

// writeStatus stores an already checked status change and returns the metric
// action to record once the transaction commits ("" when nothing changed).
func (s *ModerationService) writeStatus(tx *store.Store, product *models.Product, actor Actor, next models.ProductStatus, soldTo *uuid.UUID) (string, error) {
	now := s.now()
	if actor.IsAdmin() {
		switch next {
		case models.StatusApproved:
			_, err := tx.Products.SetStatus(product.ID, next, approvalFields(actor, now))
			return "approve", err
		case models.StatusRejected:
			_, err := tx.Products.SetStatus(product.ID, next, rejectionFields(actor, defaultRejectionReason, now))
			return "reject", err
		}
	}
	if product.Status == next {
		return "", nil
	}

	fields := map[string]interface{}{}
	if next == models.StatusSold {
		fields["sold_at"] = now
		if soldTo != nil {
			fields["sold_to"] = *soldTo
		}
	}
	if _, err := tx.Products.SetStatus(product.ID, next, fields); err != nil {
		return "", err
	}
	if next == models.StatusSold {
		if err := tx.Users.RecordSale(product.SellerID); err != nil {
			return "", err
		}
	}
	return string(next), nil
}

func approvalFields(moderator Actor, at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"validated_by":     moderator.ID,
		"validated_at":     at,
		"rejection_reason": "",
	}
}

func rejectionFields(moderator Actor, reason string, at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"validated_by":     moderator.ID,
		"validated_at":     at,
		"rejection_reason": reason,
	}
}

// Approve publishes a product. Approving an approved product refreshes the
// validation stamp and is not an error.
func (s *ModerationService) Approve(productID uuid.UUID, moderator Actor) (*models.Product, error) {
	if !moderator.IsAdmin() {
		return nil, authzError("admin access required")
	}

	product, err := s.store.Products.SetStatus(productID, models.StatusApproved, approvalFields(moderator, s.now()))
	if err != nil {
		return nil, storeError("product", err)
	}
	metrics.ModerationAction("approve")
	return product, nil
}

func (s *ModerationService) Reject(productID uuid.UUID, moderator Actor, reason string) (*models.Product, error) {
	if !moderator.IsAdmin() {
		return nil, authzError("admin access required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultRejectionReason
	}

	product, err := s.store.Products.SetStatus(productID, models.StatusRejected, rejectionFields(moderator, reason, s.now()))
	if err != nil {
		return nil, storeError("product", err)
	}
	metrics.ModerationAction("reject")
	return product, nil
}

// Delete removes a product permanently. Only its seller or an admin may do so.
func (s *ModerationService) Delete(productID uuid.UUID, actor Actor) error {
	if _, err := s.editable(productID, actor); err != nil {
		return err
	}
	if err := s.store.Products.Delete(productID); err != nil {
		return storeError("product", err)
	}
	metrics.ModerationAction("delete")
	return nil
}

// Pending is the review queue, oldest first.
func (s *ModerationService) Pending(moderator Actor) ([]models.Product, error) {
	if !moderator.IsAdmin() {
		return nil, authzError("admin access required")
	}
	products, err := s.store.Products.ByStatus(models.StatusPending)
	if err != nil {
		return nil, storeError("products", err)
	}
	return products, nil
}

// History lists moderated products, latest decision first. An empty status
// means approved and rejected.
func (s *ModerationService) History(moderator Actor, status string, limit int) ([]models.Product, error) {
	if !moderator.IsAdmin() {
		return nil, authzError("admin access required")
	}

	statuses := []models.ProductStatus{models.StatusApproved, models.StatusRejected}
	if status != "" {
		st, ok := models.ParseProductStatus(status)
		if !ok {
			return nil, validationError("unknown status %q", status)
		}
		statuses = []models.ProductStatus{st}
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	products, err := s.store.Products.History(statuses, limit)
	if err != nil {
		return nil, storeError("products", err)
	}
	return products, nil
}

// editable loads a product the actor may modify.
func (s *ModerationService) editable(productID uuid.UUID, actor Actor) (*models.Product, error) {
	product, err := s.store.Products.ByID(productID)
	if err != nil {
		return nil, storeError("product", err)
	}
	if !product.OwnedBy(actor.ID) && !actor.IsAdmin() {
		return nil, authzError("only the seller or an admin can modify this product")
	}
	return product, nil
}

func toImages(urls []string, at time.Time) datatypes.JSONSlice[models.ProductImage] {
	images := make(datatypes.JSONSlice[models.ProductImage], 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			images = append(images, models.ProductImage{URL: u, UploadedAt: at})
		}
	}
	return images
}
