package handlers

import (
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	responder
	catalog    *services.CatalogService
	moderation *services.ModerationService
}

func NewProductHandler(catalog *services.CatalogService, moderation *services.ModerationService, cfg *config.Config) *ProductHandler {
	return &ProductHandler{
		responder:  responder{exposeDetail: !cfg.IsProduction()},
		catalog:    catalog,
		moderation: moderation,
	}
}

// List serves the public catalog: approved listings only.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	resp, err := h.catalog.ListProducts(q)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(resp, ""))
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("product not found", ""))
	}

	product, err := h.catalog.GetProduct(id, session.OptionalActor(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"product": product}, ""))
}

func (h *ProductHandler) BySeller(c *fiber.Ctx) error {
	sellerID, ok := paramUUID(c, "sellerId")
	if !ok {
		return badRequest(c, "Invalid seller id")
	}

	products, err := h.catalog.BySeller(sellerID, session.OptionalActor(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"products": products}, ""))
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	actor, err := session.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	product, err := h.moderation.Create(actor, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(fiber.Map{"product": product}, "Product created"))
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	actor, err := session.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("product not found", ""))
	}

	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	product, err := h.moderation.Update(id, actor, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"product": product}, "Product updated"))
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	actor, err := session.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("product not found", ""))
	}

	if err := h.moderation.Delete(id, actor); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(nil, "Product deleted"))
}
