package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportStatus enumerates the lifecycle states of a test report.
type ReportStatus string

const (
	ReportStatusOpen       ReportStatus = "open"
	ReportStatusInProgress ReportStatus = "in_progress"
	ReportStatusResolved   ReportStatus = "resolved"
)

// Valid reports whether the status is one of the enumerated values.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusOpen, ReportStatusInProgress, ReportStatusResolved:
		return true
	}
	return false
}

// Report is the storage shape of a test report document.
type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Description   string             `bson:"description"`
	ScreenshotURL string             `bson:"screenshot_url,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	Status        ReportStatus       `bson:"status"`
	TesterName    string             `bson:"tester_name,omitempty"`
}
