package handlers

import (
	"github.com/gofiber/fiber/v2"

	"niapath/guidance-api/internal/models"
	"niapath/guidance-api/internal/services"
)

type ChatHandler struct {
	identity services.IdentityService
	sessions *services.SessionManager
}

func NewChatHandler(identity services.IdentityService, sessions *services.SessionManager) *ChatHandler {
	return &ChatHandler{
		identity: identity,
		sessions: sessions,
	}
}

// HandleSend handles POST /chat
func (h *ChatHandler) HandleSend(c *fiber.Ctx) error {
	userID, err := currentUser(c, h.identity)
	if err != nil {
		return unauthenticated(c)
	}

	var req models.ChatSendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	viewer := h.sessions.Get(userID).Viewer
	result, err := viewer.Current()
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "No recommendation to chat about",
		})
	}

	chat := viewer.Chat()
	auth := functionAuth(c, h.identity, userID)
	reply, sent := chat.Send(c.Context(), auth, result, req.Message)
	if !sent {
		// Blank input or a turn already in flight; the transcript is unchanged.
		return c.Status(fiber.StatusAccepted).JSON(models.ChatSendResponse{
			Transcript: chat.Transcript(),
		})
	}

	return c.JSON(models.ChatSendResponse{
		Reply:      reply,
		Transcript: chat.Transcript(),
	})
}

// HandleTranscript handles GET /chat
func (h *ChatHandler) HandleTranscript(c *fiber.Ctx) error {
	userID, err := currentUser(c, h.identity)
	if err != nil {
		return unauthenticated(c)
	}

	viewer := h.sessions.Get(userID).Viewer
	return c.JSON(fiber.Map{
		"transcript": viewer.Chat().Transcript(),
	})
}

// HandleClose handles DELETE /chat
func (h *ChatHandler) HandleClose(c *fiber.Ctx) error {
	userID, err := currentUser(c, h.identity)
	if err != nil {
		return unauthenticated(c)
	}

	h.sessions.Get(userID).Viewer.CloseChat()
	return c.JSON(fiber.Map{
		"message": "Chat closed",
	})
}
