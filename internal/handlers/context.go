package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"niapath/guidance-api/internal/services"
)

// currentUser resolves the caller's user id. Every handler that touches
// profile data goes through this single resolution point.
func currentUser(c *fiber.Ctx, identity services.IdentityService) (uuid.UUID, error) {
	return identity.ResolveUserID(c.Get(fiber.HeaderAuthorization))
}

// functionAuth builds the collaborator auth mode for this request: the
// dev-mode test user id, or the session's bearer token.
func functionAuth(c *fiber.Ctx, identity services.IdentityService, userID uuid.UUID) services.FunctionAuth {
	if identity.DevMode() {
		return services.FunctionAuth{Dev: true, UserID: userID}
	}

	return services.FunctionAuth{
		AccessToken: strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "),
		UserID:      userID,
	}
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Authentication required",
	})
}
