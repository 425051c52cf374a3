package feeds

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"disaster-response/internal/domain"
)

type eonetResponse struct {
	Events []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Link        string `json:"link"`
		Categories  []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"categories"`
		Sources []struct {
			URL string `json:"url"`
		} `json:"sources"`
		Geometry []struct {
			Date        time.Time       `json:"date"`
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
	} `json:"events"`
}

// EONET reads open natural events from NASA EONET v3.
type EONET struct {
	client *http.Client
	url    string
}

func NewEONET(client *http.Client, url string) *EONET {
	if url == "" {
		url = DefaultEONETURL
	}
	return &EONET{client: client, url: url}
}

func (s *EONET) Name() string { return domain.SourceEONET }

func (s *EONET) Fetch(ctx context.Context) ([]domain.DisasterNewsItem, error) {
	var body eonetResponse
	if err := getJSON(ctx, s.client, s.url, &body); err != nil {
		return nil, err
	}
	items := make([]domain.DisasterNewsItem, 0, len(body.Events))
	for _, ev := range body.Events {
		if ev.ID == "" {
			continue
		}
		category := "other"
		if len(ev.Categories) > 0 {
			category = ev.Categories[0].ID
		}
		item := domain.DisasterNewsItem{
			ID:          "eonet:" + ev.ID,
			Title:       ev.Title,
			Description: ev.Description,
			Source:      domain.SourceEONET,
			Category:    category,
			Severity:    eonetSeverity(category),
			URL:         ev.Link,
		}
		if len(ev.Sources) > 0 && ev.Sources[0].URL != "" {
			item.URL = ev.Sources[0].URL
		}
		// The most recent geometry carries the current position.
		if n := len(ev.Geometry); n > 0 {
			g := ev.Geometry[n-1]
			item.Timestamp = g.Date.UTC()
			if strings.EqualFold(g.Type, "Point") {
				var point []float64
				if err := json.Unmarshal(g.Coordinates, &point); err == nil && len(point) >= 2 {
					item.Longitude = float(point[0])
					item.Latitude = float(point[1])
				}
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func eonetSeverity(category string) domain.Severity {
	switch category {
	case "wildfires", "severeStorms", "volcanoes":
		return domain.SeverityHigh
	default:
		return domain.SeverityMedium
	}
}
