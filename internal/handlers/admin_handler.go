package handlers

import (
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves /api/admin. Every route sits behind AdminRequired.
type AdminHandler struct {
	responder
	admin      *services.AdminService
	moderation *services.ModerationService
}

func NewAdminHandler(admin *services.AdminService, moderation *services.ModerationService, cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		responder:  responder{exposeDetail: !cfg.IsProduction()},
		admin:      admin,
		moderation: moderation,
	}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(stats, ""))
}

func (h *AdminHandler) Pending(c *fiber.Ctx) error {
	actor, err := session.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}

	products, err := h.moderation.Pending(actor)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"products": products}, ""))
}

func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	actor, err := session.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("product not found", ""))
	}

	product, err := h.moderation.Approve(id, actor)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"product": product}, "Product approved"))
}

func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	actor, err := session.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("product not found", ""))
	}

	var req dto.RejectProductRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}
	if err := dto.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	product, err := h.moderation.Reject(id, actor, req.Reason)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"product": product}, "Product rejected"))
}

func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
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

func (h *AdminHandler) History(c *fiber.Ctx) error {
	actor, err := session.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}

	products, err := h.moderation.History(actor, c.Query("status"), queryInt(c, "limit", 0))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"history": products}, ""))
}

func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.admin.Users()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"users": users}, ""))
}

func (h *AdminHandler) ChangeRole(c *fiber.Ctx) error {
	actor, err := session.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("user not found", ""))
	}

	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.admin.ChangeRole(actor, id, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"user": user}, "Role updated"))
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	actor, err := session.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("user not found", ""))
	}

	if err := h.admin.DeleteUser(actor, id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(nil, "User deleted"))
}

// Categories is served both publicly and under /api/admin.
func (h *AdminHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.admin.Categories()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"categories": categories}, ""))
}

func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	actor, err := session.GetActor(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.admin.CreateCategory(actor, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(fiber.Map{"category": category}, "Category created"))
}

func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("category not found", ""))
	}

	if err := h.admin.DeleteCategory(id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(nil, "Category deleted"))
}
