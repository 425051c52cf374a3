package feeds

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"disaster-response/internal/domain"
)

const defaultReliefWebAppName = "disaster-response"

type reliefWebResponse struct {
	Data []struct {
		ID     string `json:"id"`
		Fields struct {
			Name        string `json:"name"`
			Status      string `json:"status"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Date        struct {
				Created time.Time `json:"created"`
			} `json:"date"`
			Country []struct {
				Name     string `json:"name"`
				Location *struct {
					Lat float64 `json:"lat"`
					Lon float64 `json:"lon"`
				} `json:"location"`
			} `json:"country"`
			PrimaryType struct {
				Name string `json:"name"`
			} `json:"primary_type"`
		} `json:"fields"`
	} `json:"data"`
}

// ReliefWeb reads the latest disasters from the ReliefWeb v1 API.
type ReliefWeb struct {
	client  *http.Client
	url     string
	appName string
	limit   int
}

func NewReliefWeb(client *http.Client, baseURL, appName string) *ReliefWeb {
	if baseURL == "" {
		baseURL = DefaultReliefWebURL
	}
	if appName == "" {
		appName = defaultReliefWebAppName
	}
	return &ReliefWeb{client: client, url: baseURL, appName: appName, limit: 30}
}

func (s *ReliefWeb) Name() string { return domain.SourceReliefWeb }

func (s *ReliefWeb) requestURL() (string, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("appname", s.appName)
	q.Set("preset", "latest")
	q.Set("limit", strconv.Itoa(s.limit))
	for _, f := range []string{"name", "status", "url", "description", "date.created", "country", "primary_type"} {
		q.Add("fields[include][]", f)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *ReliefWeb) Fetch(ctx context.Context) ([]domain.DisasterNewsItem, error) {
	target, err := s.requestURL()
	if err != nil {
		return nil, err
	}
	var body reliefWebResponse
	if err := getJSON(ctx, s.client, target, &body); err != nil {
		return nil, err
	}
	items := make([]domain.DisasterNewsItem, 0, len(body.Data))
	for _, d := range body.Data {
		if d.ID == "" {
			continue
		}
		f := d.Fields
		category := strings.ToLower(f.PrimaryType.Name)
		if category == "" {
			category = "other"
		}
		item := domain.DisasterNewsItem{
			ID:          "reliefweb:" + d.ID,
			Title:       f.Name,
			Description: truncate(f.Description, 500),
			Source:      domain.SourceReliefWeb,
			Category:    category,
			Severity:    reliefWebSeverity(f.Status),
			Timestamp:   f.Date.Created.UTC(),
			URL:         f.URL,
		}
		if len(f.Country) > 0 {
			item.Location = f.Country[0].Name
			if loc := f.Country[0].Location; loc != nil {
				item.Latitude = float(loc.Lat)
				item.Longitude = float(loc.Lon)
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func reliefWebSeverity(status string) domain.Severity {
	switch strings.ToLower(status) {
	case "alert":
		return domain.SeverityHigh
	case "current", "ongoing":
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}
