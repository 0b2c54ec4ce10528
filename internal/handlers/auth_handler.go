package handlers

import (
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"niapath/guidance-api/internal/models"
	"niapath/guidance-api/internal/repositories"
	"niapath/guidance-api/internal/services"
)

type AuthHandler struct {
	identity    services.IdentityService
	profileRepo repositories.ProfileRepository
	sessions    *services.SessionManager
	validate    *validator.Validate
}

func NewAuthHandler(
	identity services.IdentityService,
	profileRepo repositories.ProfileRepository,
	sessions *services.SessionManager,
) *AuthHandler {
	validate := validator.New()

	// Report field errors under their wire names.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &AuthHandler{
		identity:    identity,
		profileRepo: profileRepo,
		sessions:    sessions,
		validate:    validate,
	}
}

// HandleSignup handles POST /auth/signup
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req models.SignupRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if fields := h.validateStruct(req); len(fields) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
	}

	if req.Password != req.ConfirmPassword {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Validation failed",
			"fields": fiber.Map{
				"confirm_password": "Passwords don't match",
			},
		})
	}

	session, err := h.identity.SignUp(c.Context(), req.Email, req.Password)
	if err != nil {
		// Provider message, unmodified.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// The store is authoritative once the row exists; a failure here only
	// delays profile creation until the first save.
	if session.User.ID != uuid.Nil {
		if err := h.profileRepo.Ensure(session.User.ID, session.User.Email); err != nil {
			log.Printf("⚠️  Failed to create profile row for %s: %v\n", session.User.ID, err)
		}
	}

	score, label := services.ScorePassword(req.Password)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session": session,
		"password_strength": models.PasswordStrengthResponse{
			Score: score,
			Label: label,
		},
	})
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if fields := h.validateStruct(req); len(fields) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
	}

	session, err := h.identity.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"session": session,
	})
}

// HandleLogout handles POST /auth/logout
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	userID, err := h.identity.ResolveUserID(c.Get(fiber.HeaderAuthorization))
	if err == nil {
		h.sessions.Drop(userID)
	}

	token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if token != "" && !h.identity.DevMode() {
		if err := h.identity.SignOut(c.Context(), token); err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Signed out",
	})
}

// HandlePasswordStrength handles POST /auth/password-strength
func (h *AuthHandler) HandlePasswordStrength(c *fiber.Ctx) error {
	var req models.PasswordStrengthRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	score, label := services.ScorePassword(req.Password)
	return c.JSON(models.PasswordStrengthResponse{
		Score: score,
		Label: label,
	})
}

// validateStruct maps validation failures to field-level messages.
func (h *AuthHandler) validateStruct(value interface{}) map[string]string {
	err := h.validate.Struct(value)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": "Invalid request"}
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		name := fieldErr.Field()
		switch fieldErr.Tag() {
		case "required":
			fields[name] = "This field is required"
		case "email":
			fields[name] = "Invalid email address"
		case "min":
			fields[name] = fmt.Sprintf("Must be at least %s characters", fieldErr.Param())
		case "max":
			fields[name] = fmt.Sprintf("Must be less than %s characters", fieldErr.Param())
		default:
			fields[name] = "Invalid value"
		}
	}

	return fields
}
