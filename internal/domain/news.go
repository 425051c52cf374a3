package domain

import "time"

// News sources.
const (
	SourceUSGS      = "USGS"
	SourceEONET     = "NASA EONET"
	SourceReliefWeb = "ReliefWeb"
)

// DisasterNewsItem is the common shape every upstream feed is normalized into.
type DisasterNewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	Severity    Severity  `json:"severity"`
	Location    string    `json:"location,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	URL         string    `json:"url,omitempty"`
}

type SourceError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

type NewsSnapshot struct {
	Items     []DisasterNewsItem `json:"items"`
	FetchedAt time.Time          `json:"fetched_at"`
	Errors    []SourceError      `json:"errors,omitempty"`
}

type NewsQuery struct {
	Source   string
	Category string
	Limit    int
}
