package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/qa-admin-service/internal/domain"
	"github.com/spec-kit/qa-admin-service/internal/events"
	"github.com/spec-kit/qa-admin-service/internal/objectstore"
	"github.com/spec-kit/qa-admin-service/internal/repository"
	apperrors "github.com/spec-kit/qa-admin-service/pkg/util"
)

// ReportService coordinates test-report workflows.
type ReportService struct {
	reports    repository.ReportRepository
	uploads    objectstore.Uploader
	dispatcher events.Dispatcher
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	ReportRepo repository.ReportRepository
	Uploader   objectstore.Uploader
	Dispatcher events.Dispatcher
}

// ReportCreateInput describes report creation payload. FileData is nil when
// no screenshot was attached.
type ReportCreateInput struct {
	Description string
	TesterName  string
	BucketName  string
	FileName    string
	FileData    []byte
	ContentType string
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		reports:    deps.ReportRepo,
		uploads:    deps.Uploader,
		dispatcher: deps.Dispatcher,
	}
}

// CreateReport uploads the optional screenshot first, then inserts the
// report. An upload failure aborts the creation entirely.
func (s *ReportService) CreateReport(ctx context.Context, input ReportCreateInput) (*domain.Report, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}

	var screenshotURL string
	if len(input.FileData) > 0 {
		if s.uploads == nil {
			return nil, apperrors.NewUploadFailed("object storage is not configured", nil)
		}
		key := fmt.Sprintf("test_screenshots/%s_%s", uuid.NewString(), input.FileName)
		url, err := s.uploads.Upload(ctx, input.BucketName, key, input.FileData, input.ContentType)
		if err != nil {
			return nil, apperrors.NewUploadFailed(
				fmt.Sprintf("Failed to upload image to %s", input.BucketName), err)
		}
		screenshotURL = url
	}

	report := &domain.Report{
		Description:   description,
		ScreenshotURL: screenshotURL,
		CreatedAt:     time.Now().UTC(),
		Status:        domain.ReportStatusOpen,
		TesterName:    strings.TrimSpace(input.TesterName),
	}
	if err := s.reports.Insert(ctx, report); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportCreated,
		EntityID: report.ID.Hex(),
		Payload: events.ReportCreatedPayload{
			Description:   report.Description,
			TesterName:    report.TesterName,
			ScreenshotURL: report.ScreenshotURL,
		},
	})
	return report, nil
}

// ListReports returns all stored reports.
func (s *ReportService) ListReports(ctx context.Context) ([]domain.Report, error) {
	return s.reports.List(ctx)
}

// UpdateStatus transitions a report to a new status and returns the
// updated record.
func (s *ReportService) UpdateStatus(ctx context.Context, id, status string) (*domain.Report, error) {
	oid, err := parseObjectID(id, "report")
	if err != nil {
		return nil, err
	}

	newStatus := domain.ReportStatus(status)
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError(
			"Invalid status value. Must be 'open', 'in_progress', or 'resolved'", nil)
	}

	matched, err := s.reports.SetStatus(ctx, oid, newStatus)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, apperrors.NewNotFound("Report", nil)
	}

	report, err := s.reports.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("Report", nil)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportStatusChanged,
		EntityID: report.ID.Hex(),
		Payload:  events.ReportStatusChangedPayload{NewStatus: report.Status},
	})
	return report, nil
}

func (s *ReportService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
