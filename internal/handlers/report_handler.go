package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"niapath/guidance-api/internal/repositories"
	"niapath/guidance-api/internal/services"
)

type ReportHandler struct {
	identity    services.IdentityService
	sessions    *services.SessionManager
	reports     services.ReportService
	profileRepo repositories.ProfileRepository
}

func NewReportHandler(
	identity services.IdentityService,
	sessions *services.SessionManager,
	reports services.ReportService,
	profileRepo repositories.ProfileRepository,
) *ReportHandler {
	return &ReportHandler{
		identity:    identity,
		sessions:    sessions,
		reports:     reports,
		profileRepo: profileRepo,
	}
}

// HandleExport handles POST /recommendation/report
func (h *ReportHandler) HandleExport(c *fiber.Ctx) error {
	userID, err := currentUser(c, h.identity)
	if err != nil {
		return unauthenticated(c)
	}

	viewer := h.sessions.Get(userID).Viewer
	result, err := viewer.Current()
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "No recommendation to export",
		})
	}

	if err := viewer.BeginExport(); err != nil {
		if errors.Is(err, services.ErrExportInFlight) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A report export is already running",
			})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "No recommendation to export",
		})
	}
	defer viewer.EndExport()

	profile, err := h.profileRepo.FindByID(userID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to download report. Please try again.",
		})
	}

	auth := functionAuth(c, h.identity, userID)
	document, filename, err := h.reports.Export(c.Context(), auth, profile.Fields(), result)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to download report. Please try again.",
		})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(document)
}
