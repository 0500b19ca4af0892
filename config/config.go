// Package config reads application settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olablt/worldlocations/geo"
	"github.com/olablt/worldlocations/locations"
	"github.com/olablt/worldlocations/tiles"
)

const DefaultUserAgent = "worldlocations/1.0 (+https://github.com/olablt/worldlocations)"

type Config struct {
	TileURL           string
	UserAgent         string
	PermissionGranted bool
	// Position, when set, replaces the geo-IP lookup with a fixed coordinate.
	Position    *locations.Coordinates
	GeoIPURL    string
	Offline     bool
	TileWorkers int
}

// Load reads the configuration from the process environment. Call
// godotenv.Load first to pick up a .env file.
func Load() (Config, error) {
	cfg := Config{
		TileURL:   getEnv("WORLDMAP_TILE_URL", tiles.DefaultTileURL),
		UserAgent: getEnv("WORLDMAP_USER_AGENT", DefaultUserAgent),
		GeoIPURL:  getEnv("WORLDMAP_GEOIP_URL", geo.DefaultGeoIPURL),
	}

	switch perm := strings.ToLower(getEnv("WORLDMAP_PERMISSION", "grant")); perm {
	case "grant", "granted":
		cfg.PermissionGranted = true
	case "deny", "denied":
		cfg.PermissionGranted = false
	default:
		return Config{}, fmt.Errorf("WORLDMAP_PERMISSION: want grant or deny, got %q", perm)
	}

	if raw := getEnv("WORLDMAP_POSITION", ""); raw != "" {
		pos, err := ParsePosition(raw)
		if err != nil {
			return Config{}, fmt.Errorf("WORLDMAP_POSITION: %w", err)
		}
		cfg.Position = &pos
	}

	offline, err := strconv.ParseBool(getEnv("WORLDMAP_OFFLINE", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("WORLDMAP_OFFLINE: %w", err)
	}
	cfg.Offline = offline

	workers, err := strconv.Atoi(getEnv("WORLDMAP_TILE_WORKERS", "4"))
	if err != nil {
		return Config{}, fmt.Errorf("WORLDMAP_TILE_WORKERS: %w", err)
	}
	if workers < 1 {
		return Config{}, fmt.Errorf("WORLDMAP_TILE_WORKERS: must be positive, got %d", workers)
	}
	cfg.TileWorkers = workers

	if strings.Count(cfg.TileURL, "%d") != 3 {
		return Config{}, fmt.Errorf("WORLDMAP_TILE_URL: want three %%d verbs for zoom, x and y, got %q", cfg.TileURL)
	}

	return cfg, nil
}

// ParsePosition parses "lat,lon" in decimal degrees.
func ParsePosition(s string) (locations.Coordinates, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return locations.Coordinates{}, fmt.Errorf("want \"lat,lon\", got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return locations.Coordinates{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return locations.Coordinates{}, fmt.Errorf("longitude: %w", err)
	}
	if lat < -90 || lat > 90 {
		return locations.Coordinates{}, fmt.Errorf("latitude %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return locations.Coordinates{}, fmt.Errorf("longitude %v out of range", lon)
	}
	return locations.Coordinates{Latitude: lat, Longitude: lon}, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
