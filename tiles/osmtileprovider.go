package tiles

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const DefaultTileURL = "https://tile.openstreetmap.org/%d/%d/%d.png"

// OSMTileProvider downloads raster tiles from an OpenStreetMap style server.
// URL is a fmt template taking zoom, x and y in that order.
type OSMTileProvider struct {
	URL       string
	UserAgent string
	client    *http.Client
}

func NewOSMTileProvider(url, userAgent string) *OSMTileProvider {
	if url == "" {
		url = DefaultTileURL
	}
	return &OSMTileProvider{
		URL:       url,
		UserAgent: userAgent,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// StatusError is returned when the tile server answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.Code, e.Body)
}

func (p *OSMTileProvider) GetTile(ctx context.Context, tile Tile) (image.Image, error) {
	url := p.GetTileURL(tile)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for tile %v: %w", tile, err)
	}
	// tile.openstreetmap.org rejects requests without an identifying agent
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}
	req.Header.Set("Accept", "image/png,image/*;q=0.8")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tile %v: %w", tile, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode tile %v: %w", tile, err)
	}

	log.Printf("Loaded tile %s", GetTileKey(tile))
	return img, nil
}

// GetTileURL returns the URL for downloading the map tile
func (p *OSMTileProvider) GetTileURL(tile Tile) string {
	return fmt.Sprintf(p.URL, tile.Zoom, tile.X, tile.Y)
}
