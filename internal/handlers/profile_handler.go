package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"niapath/guidance-api/internal/models"
	"niapath/guidance-api/internal/services"
)

type ProfileHandler struct {
	identity    services.IdentityService
	sessions    *services.SessionManager
	storage     services.StorageService
	maxFileSize int64
}

func NewProfileHandler(
	identity services.IdentityService,
	sessions *services.SessionManager,
	storage services.StorageService,
	maxFileSize int64,
) *ProfileHandler {
	return &ProfileHandler{
		identity:    identity,
		sessions:    sessions,
		storage:     storage,
		maxFileSize: maxFileSize,
	}
}

// HandleLoad handles GET /profile
func (h *ProfileHandler) HandleLoad(c *fiber.Ctx) error {
	userID, err := currentUser(c, h.identity)
	if err != nil {
		return unauthenticated(c)
	}

	editor := h.sessions.Get(userID).Editor
	if err := editor.Load(c.Context()); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to load profile data. Please try again.",
		})
	}

	return c.JSON(editor.Bundle())
}

// HandleToggleInterest handles POST /profile/interests/toggle
func (h *ProfileHandler) HandleToggleInterest(c *fiber.Ctx) error {
	userID, err := currentUser(c, h.identity)
	if err != nil {
		return unauthenticated(c)
	}

	var req models.ToggleInterestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	editor := h.sessions.Get(userID).Editor
	if err := editor.ToggleInterest(req.InterestID); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Profile not loaded",
		})
	}

	return c.JSON(editor.Bundle())
}

// HandleSetGrade handles POST /profile/subjects/grade
func (h *ProfileHandler) HandleSetGrade(c *fiber.Ctx) error {
	userID, err := currentUser(c, h.identity)
	if err != nil {
		return unauthenticated(c)
	}

	var req models.SetGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	editor := h.sessions.Get(userID).Editor
	if err := editor.SetGrade(req.SubjectID, req.Grade); err != nil {
		if errors.Is(err, services.ErrInvalidGrade) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Grade must be one of A, B, C, D, E",
			})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Profile not loaded",
		})
	}

	return c.JSON(editor.Bundle())
}

// HandleSetFields handles PUT /profile/fields
func (h *ProfileHandler) HandleSetFields(c *fiber.Ctx) error {
	userID, err := currentUser(c, h.identity)
	if err != nil {
		return unauthenticated(c)
	}

	var req models.UpdateFieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	editor := h.sessions.Get(userID).Editor
	if err := editor.SetFields(models.ProfileFields{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Bio:       req.Bio,
		Location:  req.Location,
		AvatarURL: req.AvatarURL,
	}); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Profile not loaded",
		})
	}

	return c.JSON(editor.Bundle())
}

// HandleAddInterest handles POST /profile/interests
func (h *ProfileHandler) HandleAddInterest(c *fiber.Ctx) error {
	userID, err := currentUser(c, h.identity)
	if err != nil {
		return unauthenticated(c)
	}

	var req models.AddInterestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	editor := h.sessions.Get(userID).Editor
	interest, err := editor.AddCustomInterest(req.Name)
	if err != nil {
		if errors.Is(err, services.ErrInterestRejected) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "Could not add interest",
			})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Profile not loaded",
		})
	}

	if interest == nil {
		// Blank input is a no-op.
		return c.JSON(editor.Bundle())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"interest": interest,
		"bundle":   editor.Bundle(),
	})
}

// HandleSave handles POST /profile/save
func (h *ProfileHandler) HandleSave(c *fiber.Ctx) error {
	userID, err := currentUser(c, h.identity)
	if err != nil {
		return unauthenticated(c)
	}

	editor := h.sessions.Get(userID).Editor
	if err := editor.Save(); err != nil {
		if errors.Is(err, services.ErrNotLoaded) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Profile not loaded",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to save profile. Please try again.",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Profile saved",
		"bundle":  editor.Bundle(),
	})
}

// HandleAvatarUpload handles POST /profile/avatar
func (h *ProfileHandler) HandleAvatarUpload(c *fiber.Ctx) error {
	userID, err := currentUser(c, h.identity)
	if err != nil {
		return unauthenticated(c)
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No avatar file uploaded",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Avatar too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, err := h.storage.SaveAvatar(file, userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to save avatar: %v", err),
		})
	}

	avatarURL := "/uploads/" + filename

	editor := h.sessions.Get(userID).Editor
	bundle := editor.Bundle()
	fields := bundle.Profile
	fields.AvatarURL = avatarURL
	if err := editor.SetFields(fields); err != nil {
		// Editor not loaded yet; the URL still points at the stored file
		// and can be set on the next load/save cycle.
		return c.JSON(fiber.Map{
			"avatar_url": avatarURL,
		})
	}

	return c.JSON(fiber.Map{
		"avatar_url": avatarURL,
		"bundle":     editor.Bundle(),
	})
}
