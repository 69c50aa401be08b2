package events

import (
	"time"

	"github.com/spec-kit/qa-admin-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportCreated       EventType = "report_created"
	EventReportStatusChanged EventType = "report_status_changed"
	EventUserCreated         EventType = "user_created"
	EventUserUpdated         EventType = "user_updated"
	EventUserDeleted         EventType = "user_deleted"
)

// Event represents a domain event emitted by services. EntityID is the
// store-assigned identifier of the report or user the event concerns.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReportCreatedPayload payload.
type ReportCreatedPayload struct {
	Description   string `json:"description"`
	TesterName    string `json:"tester_name,omitempty"`
	ScreenshotURL string `json:"screenshot_url,omitempty"`
}

// ReportStatusChangedPayload payload.
type ReportStatusChangedPayload struct {
	NewStatus domain.ReportStatus `json:"new_status"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
}

// UserUpdatedPayload payload.
type UserUpdatedPayload struct {
	FieldsChanged bool `json:"fields_changed"`
}
