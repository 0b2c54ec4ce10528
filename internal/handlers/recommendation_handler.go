package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"niapath/guidance-api/internal/services"
)

type RecommendationHandler struct {
	identity services.IdentityService
	sessions *services.SessionManager
}

func NewRecommendationHandler(
	identity services.IdentityService,
	sessions *services.SessionManager,
) *RecommendationHandler {
	return &RecommendationHandler{
		identity: identity,
		sessions: sessions,
	}
}

// HandleRequest handles POST /recommendation
func (h *RecommendationHandler) HandleRequest(c *fiber.Ctx) error {
	userID, err := currentUser(c, h.identity)
	if err != nil {
		return unauthenticated(c)
	}

	viewer := h.sessions.Get(userID).Viewer
	auth := functionAuth(c, h.identity, userID)

	if _, err := viewer.Request(c.Context(), auth); err != nil {
		if errors.Is(err, services.ErrRequestInFlight) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A recommendation request is already running",
			})
		}
		// The viewer state carries the surfaced message.
		return c.Status(fiber.StatusBadGateway).JSON(viewer.State())
	}

	return c.JSON(viewer.State())
}

// HandleGetState handles GET /recommendation
func (h *RecommendationHandler) HandleGetState(c *fiber.Ctx) error {
	userID, err := currentUser(c, h.identity)
	if err != nil {
		return unauthenticated(c)
	}

	return c.JSON(h.sessions.Get(userID).Viewer.State())
}
