package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"

	"disaster-response/internal/domain"
)

// Default upstream endpoints.
const (
	DefaultUSGSURL      = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/2.5_day.geojson"
	DefaultEONETURL     = "https://eonet.gsfc.nasa.gov/api/v3/events?status=open&limit=50"
	DefaultReliefWebURL = "https://api.reliefweb.int/v1/disasters"
)

const maxBodyBytes = 8 << 20

// NewHTTPClient returns an X-Ray instrumented client with the given timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return xray.Client(&http.Client{Timeout: timeout})
}

func getJSON(ctx context.Context, client *http.Client, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", err, domain.ErrUpstream)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %w", resp.StatusCode, domain.ErrUpstream)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w: %w", err, domain.ErrUpstream)
	}
	return nil
}

func float(v float64) *float64 { return &v }
