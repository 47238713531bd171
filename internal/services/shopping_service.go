package services

import (
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/store"
	"github.com/google/uuid"
)

// ShoppingService manages a buyer's favorites and cart.
type ShoppingService struct {
	store *store.Store
}

func NewShoppingService(st *store.Store) *ShoppingService {
	return &ShoppingService{store: st}
}

// AddFavorite is idempotent: a product is in the favorites set at most once.
func (s *ShoppingService) AddFavorite(userID, productID uuid.UUID) error {
	if _, err := s.store.Products.ByID(productID); err != nil {
		return storeError("product", err)
	}
	if err := s.store.Favorites.Add(userID, productID); err != nil {
		return storeError("favorite", err)
	}
	return nil
}

func (s *ShoppingService) RemoveFavorite(userID, productID uuid.UUID) error {
	if err := s.store.Favorites.Remove(userID, productID); err != nil {
		return storeError("favorite", err)
	}
	return nil
}

func (s *ShoppingService) Favorites(userID uuid.UUID) ([]models.Product, error) {
	products, err := s.store.Favorites.Products(userID)
	if err != nil {
		return nil, storeError("favorites", err)
	}
	return products, nil
}

// AddToCart adds an approved product to the cart, summing quantities for a
// product already there.
func (s *ShoppingService) AddToCart(userID uuid.UUID, req *dto.AddToCartRequest) (*dto.CartResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, validationError("%s", err.Error())
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	productID := uuid.MustParse(req.ProductID)
	product, err := s.store.Products.ByID(productID)
	if err != nil {
		return nil, storeError("product", err)
	}
	if product.Status != models.StatusApproved {
		return nil, validationError("product is not available")
	}
	if product.OwnedBy(userID) {
		return nil, validationError("cannot add your own product to the cart")
	}

	if err := s.store.Carts.Add(userID, productID, quantity); err != nil {
		return nil, storeError("cart", err)
	}
	return s.Cart(userID)
}

func (s *ShoppingService) RemoveFromCart(userID, productID uuid.UUID) (*dto.CartResponse, error) {
	if err := s.store.Carts.Remove(userID, productID); err != nil {
		return nil, storeError("cart", err)
	}
	return s.Cart(userID)
}

func (s *ShoppingService) ClearCart(userID uuid.UUID) error {
	if err := s.store.Carts.Clear(userID); err != nil {
		return storeError("cart", err)
	}
	return nil
}

// Cart returns the cart lines with the total including shipping.
func (s *ShoppingService) Cart(userID uuid.UUID) (*dto.CartResponse, error) {
	items, err := s.store.Carts.Items(userID)
	if err != nil {
		return nil, storeError("cart", err)
	}

	var total float64
	for _, item := range items {
		if item.Product != nil {
			total += (item.Product.Price + item.Product.ShippingCost) * float64(item.Quantity)
		}
	}
	return &dto.CartResponse{Items: items, Total: total}, nil
}
