package handlers

import (
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Publisher pushes stored conversation events to live connections.
type Publisher interface {
	PublishMessage(msg *models.Message)
	PublishRead(msg *models.Message, readerID uuid.UUID)
	Online(userID uuid.UUID) bool
}

type MessageHandler struct {
	responder
	conversations *services.ConversationService
	publisher     Publisher
}

func NewMessageHandler(conversations *services.ConversationService, publisher Publisher, cfg *config.Config) *MessageHandler {
	return &MessageHandler{
		responder:     responder{exposeDetail: !cfg.IsProduction()},
		conversations: conversations,
		publisher:     publisher,
	}
}

// Send stores a message and relays it to connected conversation members.
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	senderID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	msg, err := h.conversations.SendMessage(senderID, &req)
	if err != nil {
		return h.fail(c, err)
	}
	metrics.MessageSent("rest")
	h.publisher.PublishMessage(msg)

	return c.Status(fiber.StatusCreated).JSON(dto.OK(fiber.Map{"message": msg}, "Message sent"))
}

func (h *MessageHandler) Conversation(c *fiber.Ctx) error {
	messages, err := h.conversations.GetConversation(
		c.Params("conversationId"),
		queryInt(c, "limit", 0),
		queryInt(c, "skip", 0),
	)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"messages": messages}, ""))
}

func (h *MessageHandler) Conversations(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	summaries, err := h.conversations.ListUserConversations(userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"conversations": summaries}, ""))
}

func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("message not found", ""))
	}

	msg, err := h.conversations.MarkRead(id, userID)
	if err != nil {
		return h.fail(c, err)
	}
	h.publisher.PublishRead(msg, userID)
	return c.JSON(dto.OK(fiber.Map{"message": msg}, ""))
}

func (h *MessageHandler) Presence(c *fiber.Ctx) error {
	userID, ok := paramUUID(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user id")
	}
	return c.JSON(dto.OK(fiber.Map{"userId": userID, "online": h.publisher.Online(userID)}, ""))
}
