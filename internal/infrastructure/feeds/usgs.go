package feeds

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"disaster-response/internal/domain"
)

type usgsResponse struct {
	Features []struct {
		ID         string `json:"id"`
		Properties struct {
			Mag   *float64 `json:"mag"`
			Place string   `json:"place"`
			Time  int64    `json:"time"`
			URL   string   `json:"url"`
			Title string   `json:"title"`
			Type  string   `json:"type"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// USGS reads the USGS earthquake GeoJSON summary feed.
type USGS struct {
	client *http.Client
	url    string
}

func NewUSGS(client *http.Client, url string) *USGS {
	if url == "" {
		url = DefaultUSGSURL
	}
	return &USGS{client: client, url: url}
}

func (s *USGS) Name() string { return domain.SourceUSGS }

func (s *USGS) Fetch(ctx context.Context) ([]domain.DisasterNewsItem, error) {
	var body usgsResponse
	if err := getJSON(ctx, s.client, s.url, &body); err != nil {
		return nil, err
	}
	items := make([]domain.DisasterNewsItem, 0, len(body.Features))
	for _, f := range body.Features {
		if f.ID == "" {
			continue
		}
		p := f.Properties
		mag := 0.0
		if p.Mag != nil {
			mag = *p.Mag
		}
		title := p.Title
		if title == "" {
			title = fmt.Sprintf("M %.1f - %s", mag, p.Place)
		}
		item := domain.DisasterNewsItem{
			ID:          "usgs:" + f.ID,
			Title:       title,
			Description: fmt.Sprintf("Magnitude %.1f %s near %s", mag, p.Type, p.Place),
			Source:      domain.SourceUSGS,
			Category:    "earthquake",
			Severity:    magnitudeSeverity(mag),
			Location:    p.Place,
			Timestamp:   time.UnixMilli(p.Time).UTC(),
			URL:         p.URL,
		}
		if len(f.Geometry.Coordinates) >= 2 {
			item.Longitude = float(f.Geometry.Coordinates[0])
			item.Latitude = float(f.Geometry.Coordinates[1])
		}
		items = append(items, item)
	}
	return items, nil
}

func magnitudeSeverity(mag float64) domain.Severity {
	switch {
	case mag >= 7:
		return domain.SeverityCritical
	case mag >= 6:
		return domain.SeverityHigh
	case mag >= 4.5:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
