package handlers

import (
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

// ShoppingHandler serves favorites and the cart.
type ShoppingHandler struct {
	responder
	shopping *services.ShoppingService
}

func NewShoppingHandler(shopping *services.ShoppingService, cfg *config.Config) *ShoppingHandler {
	return &ShoppingHandler{
		responder: responder{exposeDetail: !cfg.IsProduction()},
		shopping:  shopping,
	}
}

func (h *ShoppingHandler) Favorites(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	products, err := h.shopping.Favorites(userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"favorites": products}, ""))
}

func (h *ShoppingHandler) AddFavorite(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	productID, ok := paramUUID(c, "productId")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("product not found", ""))
	}

	if err := h.shopping.AddFavorite(userID, productID); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(nil, "Added to favorites"))
}

func (h *ShoppingHandler) RemoveFavorite(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	productID, ok := paramUUID(c, "productId")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("product not found", ""))
	}

	if err := h.shopping.RemoveFavorite(userID, productID); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(nil, "Removed from favorites"))
}

func (h *ShoppingHandler) Cart(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	cart, err := h.shopping.Cart(userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(cart, ""))
}

func (h *ShoppingHandler) AddToCart(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cart, err := h.shopping.AddToCart(userID, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(cart, "Added to cart"))
}

func (h *ShoppingHandler) RemoveFromCart(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	productID, ok := paramUUID(c, "productId")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("product not found", ""))
	}

	cart, err := h.shopping.RemoveFromCart(userID, productID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(cart, "Removed from cart"))
}

func (h *ShoppingHandler) ClearCart(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.shopping.ClearCart(userID); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(nil, "Cart cleared"))
}
