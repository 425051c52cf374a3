package domain

import "time"

type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportVerified ReportStatus = "verified"
	ReportRejected ReportStatus = "rejected"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// DisasterTypes lists the categories a report may be filed under.
var DisasterTypes = []string{
	"earthquake", "flood", "wildfire", "storm", "landslide", "volcano", "drought", "tsunami", "other",
}

type Report struct {
	ID           string       `json:"id"`
	ReporterID   string       `json:"reporter_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	DisasterType string       `json:"disaster_type"`
	Location     string       `json:"location"`
	Latitude     float64      `json:"latitude"`
	Longitude    float64      `json:"longitude"`
	Severity     Severity     `json:"severity"`
	Status       ReportStatus `json:"status"`
	ReviewedBy   string       `json:"reviewed_by,omitempty"`
	ReviewNote   string       `json:"review_note,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type ReportFilters struct {
	Status     ReportStatus
	ReporterID string
	Page       int
	PageSize   int
}

type ReportPage struct {
	Reports []Report   `json:"reports"`
	Paging  PagingInfo `json:"paging"`
}
