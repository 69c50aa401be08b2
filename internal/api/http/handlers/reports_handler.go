package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/qa-admin-service/internal/api/dto"
	"github.com/spec-kit/qa-admin-service/internal/service"
	apperrors "github.com/spec-kit/qa-admin-service/pkg/util"
)

// ReportsHandler exposes the test-report endpoints.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reportService}
}

// Root handles GET / with a short endpoint listing.
func (h *ReportsHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Test Reports API is running!",
		"endpoints": fiber.Map{
			"create_report": "/reports (POST)",
			"get_reports":   "/reports (GET)",
			"update_status": "/reports/{id}/status (PUT)",
		},
	})
}

// Create handles POST /reports (multipart form).
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	input := service.ReportCreateInput{
		Description: c.FormValue("description"),
		TesterName:  c.FormValue("tester_name"),
		BucketName:  c.FormValue("bucket_name"),
	}

	if fileHeader, err := c.FormFile("file"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return apperrors.NewUploadFailed("could not read uploaded file", err)
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return apperrors.NewUploadFailed("could not read uploaded file", err)
		}
		input.FileName = fileHeader.Filename
		input.FileData = data
		input.ContentType = fileHeader.Header.Get("Content-Type")
	}

	report, err := h.reports.CreateReport(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.ReportResponseFrom(report))
}

// List handles GET /reports.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	reports, err := h.reports.ListReports(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.ReportListResponse(reports))
}

// UpdateStatus handles PUT /reports/:id/status?status=<value>.
func (h *ReportsHandler) UpdateStatus(c *fiber.Ctx) error {
	report, err := h.reports.UpdateStatus(c.UserContext(), c.Params("id"), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ReportResponseFrom(report))
}
