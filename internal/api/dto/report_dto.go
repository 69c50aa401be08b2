package dto

import (
	"time"

	"github.com/spec-kit/qa-admin-service/internal/domain"
)

// ReportResponse is the external shape of a test report.
type ReportResponse struct {
	ID            string              `json:"id"`
	Description   string              `json:"description"`
	ScreenshotURL *string             `json:"screenshot_url"`
	CreatedAt     time.Time           `json:"created_at"`
	Status        domain.ReportStatus `json:"status"`
	TesterName    *string             `json:"tester_name"`
}

// ReportResponseFrom maps the storage shape to the external shape. Optional
// fields absent in storage render as JSON null.
func ReportResponseFrom(r *domain.Report) ReportResponse {
	resp := ReportResponse{
		ID:          r.ID.Hex(),
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		Status:      r.Status,
	}
	if r.ScreenshotURL != "" {
		url := r.ScreenshotURL
		resp.ScreenshotURL = &url
	}
	if r.TesterName != "" {
		name := r.TesterName
		resp.TesterName = &name
	}
	return resp
}

// ReportListResponse maps a stored slice to external shapes.
func ReportListResponse(reports []domain.Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, ReportResponseFrom(&reports[i]))
	}
	return out
}

// UserListEnvelope is the DataTables-style listing envelope.
type UserListEnvelope struct {
	Draw            int            `json:"draw"`
	RecordsTotal    int64          `json:"recordsTotal"`
	RecordsFiltered int            `json:"recordsFiltered"`
	Data            []UserResponse `json:"data"`
}
