package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"niapath/guidance-api/internal/models"
)

// ErrDownloadFailed reports a report export in which any step failed; no
// partial file is offered.
var ErrDownloadFailed = errors.New("download error")

// ReportService sends the recommendation and profile to the
// report-formatting function and renders the returned content into a
// paginated document.
type ReportService interface {
	Export(ctx context.Context, auth FunctionAuth, profile models.ProfileFields, result *models.RecommendationResult) ([]byte, string, error)
}

type reportService struct {
	functions FunctionClient
}

func NewReportService(functions FunctionClient) ReportService {
	return &reportService{functions: functions}
}

// Export implements ReportService.
func (s *reportService) Export(ctx context.Context, auth FunctionAuth, profile models.ProfileFields, result *models.RecommendationResult) ([]byte, string, error) {
	if result == nil {
		return nil, "", fmt.Errorf("%w: no recommendation", ErrDownloadFailed)
	}

	alternatives := result.Alternatives
	if alternatives == nil {
		// An absent alternatives field is an empty list, not a failure.
		alternatives = []models.Alternative{}
	}

	payload, err := s.functions.GenerateReport(ctx, auth, ReportRequest{
		User:           profile,
		Recommendation: result.Recommendation,
		Alternatives:   alternatives,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	document, err := renderReport(profile, payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	return document, reportFilename(profile.FullName), nil
}

// renderReport lays out the fixed A4 document: header, profile summary,
// highlighted top recommendation, fit alignment, education pathways, and a
// page-numbered footer.
func renderReport(profile models.ProfileFields, payload *models.ReportPayload) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-20)
		pdf.SetDrawColor(226, 232, 240)
		pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(148, 163, 184)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Confidential Career Guidance - Page %d of {nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(30, 58, 138)
	pdf.CellFormat(0, 10, "Career Strategy Report", "", 1, "L", false, 0, "")
	if profile.FullName != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(0, 7, tr("Prepared for "+profile.FullName), "", 1, "L", false, 0, "")
	}
	pdf.SetDrawColor(59, 130, 246)
	pdf.SetLineWidth(0.8)
	pdf.Line(20, pdf.GetY()+2, 190, pdf.GetY()+2)
	pdf.SetLineWidth(0.2)
	pdf.Ln(8)

	// Student profile
	sectionTitle(pdf, "Student Profile")
	paragraph(pdf, tr(payload.ReportContent.UserDescription))

	// Top recommendation highlight box
	pdf.Ln(4)
	boxTop := pdf.GetY()
	pdf.SetFillColor(239, 246, 255)
	pdf.SetDrawColor(59, 130, 246)
	pdf.Rect(20, boxTop, 170, 6, "F")
	pdf.SetX(26)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(59, 130, 246)
	pdf.CellFormat(0, 6, "TOP RECOMMENDATION", "", 1, "L", true, 0, "")
	pdf.SetX(26)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(37, 99, 235)
	pdf.CellFormat(158, 8, tr(payload.Recommendation.Title), "", 1, "L", true, 0, "")
	pdf.SetX(26)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(51, 65, 85)
	pdf.MultiCell(158, 6, tr(payload.ReportContent.TopRecommendation.Details), "", "L", true)
	pdf.Line(20, boxTop, 20, pdf.GetY())
	pdf.Ln(4)

	// Fit alignment
	sectionTitle(pdf, "Strategic Alignment")
	fitLine(pdf, tr, "Interest Fit: ", payload.ReportContent.TopRecommendation.Fits.InterestFit)
	fitLine(pdf, tr, "Industry Fit: ", payload.ReportContent.TopRecommendation.Fits.IndustryFit)
	fitLine(pdf, tr, "Subject Fit: ", payload.ReportContent.TopRecommendation.Fits.SubjectFit)

	// Education pathways
	sectionTitle(pdf, "Education Pathways")
	paragraph(pdf, tr(payload.ReportContent.RecommendedDegrees))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return buf.Bytes(), nil
}

func sectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(30, 58, 138)
	pdf.CellFormat(0, 8, strings.ToUpper(title), "", 1, "L", false, 0, "")
}

func paragraph(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(51, 65, 85)
	pdf.MultiCell(0, 6, text, "", "L", false)
	pdf.Ln(2)
}

func fitLine(pdf *fpdf.Fpdf, tr func(string) string, label, text string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(51, 65, 85)
	pdf.Write(6, label)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Write(6, tr(text))
	pdf.Ln(8)
}

// reportFilename derives the download name from the user's display name.
func reportFilename(fullName string) string {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return "Career_Report.pdf"
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}

	cleaned := strings.Trim(b.String(), "_")
	if cleaned == "" {
		return "Career_Report.pdf"
	}

	return "Career_Report_" + cleaned + ".pdf"
}
