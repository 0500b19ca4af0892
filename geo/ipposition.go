package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/olablt/worldlocations/locations"
)

const DefaultGeoIPURL = "http://ip-api.com/json/"

type geoIPResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPPosition estimates the device position from its public IP address.
// The estimate is city-level at best, so HighAccuracy cannot be honoured.
type IPPosition struct {
	URL       string
	UserAgent string
	client    *http.Client
	now       func() time.Time

	mu     sync.Mutex
	last   locations.Coordinates
	lastAt time.Time
	have   bool
}

func NewIPPosition(url, userAgent string) *IPPosition {
	if url == "" {
		url = DefaultGeoIPURL
	}
	return &IPPosition{
		URL:       url,
		UserAgent: userAgent,
		client:    &http.Client{},
		now:       time.Now,
	}
}

func (p *IPPosition) CurrentPosition(ctx context.Context, opts PositionOptions) (locations.Coordinates, error) {
	if fix, ok := p.cached(opts.MaximumAge); ok {
		return fix, nil
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return locations.Coordinates{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return locations.Coordinates{}, fmt.Errorf("%w: %v", ErrNoPosition, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return locations.Coordinates{}, fmt.Errorf("%w: status %d: %s", ErrNoPosition, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out geoIPResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return locations.Coordinates{}, fmt.Errorf("%w: decode response: %v", ErrNoPosition, err)
	}
	if out.Status != "" && out.Status != "success" {
		return locations.Coordinates{}, fmt.Errorf("%w: %s", ErrNoPosition, out.Message)
	}

	fix := locations.Coordinates{Latitude: out.Lat, Longitude: out.Lon}
	p.mu.Lock()
	p.last, p.lastAt, p.have = fix, p.now(), true
	p.mu.Unlock()
	return fix, nil
}

func (p *IPPosition) cached(maxAge time.Duration) (locations.Coordinates, bool) {
	if maxAge <= 0 {
		return locations.Coordinates{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.have || p.now().Sub(p.lastAt) > maxAge {
		return locations.Coordinates{}, false
	}
	return p.last, true
}
