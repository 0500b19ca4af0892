package config

import (
	"testing"

	"github.com/olablt/worldlocations/geo"
	"github.com/olablt/worldlocations/locations"
	"github.com/olablt/worldlocations/tiles"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"WORLDMAP_TILE_URL", "WORLDMAP_USER_AGENT", "WORLDMAP_PERMISSION", "WORLDMAP_POSITION",
		"WORLDMAP_GEOIP_URL", "WORLDMAP_OFFLINE", "WORLDMAP_TILE_WORKERS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TileURL != tiles.DefaultTileURL || cfg.GeoIPURL != geo.DefaultGeoIPURL || cfg.UserAgent != DefaultUserAgent {
		t.Fatalf("urls = %+v", cfg)
	}
	if !cfg.PermissionGranted || cfg.Offline || cfg.Position != nil || cfg.TileWorkers != 4 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORLDMAP_PERMISSION", "deny")
	t.Setenv("WORLDMAP_POSITION", "10, 20")
	t.Setenv("WORLDMAP_OFFLINE", "true")
	t.Setenv("WORLDMAP_TILE_WORKERS", "8")
	t.Setenv("WORLDMAP_TILE_URL", "http://localhost:8080/%d/%d/%d.png")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PermissionGranted {
		t.Fatal("permission granted")
	}
	if cfg.Position == nil || *cfg.Position != (locations.Coordinates{Latitude: 10, Longitude: 20}) {
		t.Fatalf("position = %v", cfg.Position)
	}
	if !cfg.Offline || cfg.TileWorkers != 8 || cfg.TileURL != "http://localhost:8080/%d/%d/%d.png" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"WORLDMAP_PERMISSION", "maybe"},
		{"WORLDMAP_POSITION", "north"},
		{"WORLDMAP_OFFLINE", "sometimes"},
		{"WORLDMAP_TILE_WORKERS", "0"},
		{"WORLDMAP_TILE_WORKERS", "many"},
		{"WORLDMAP_TILE_URL", "http://localhost/tiles.png"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    locations.Coordinates
		wantErr bool
	}{
		{in: "51.5,-0.12", want: locations.Coordinates{Latitude: 51.5, Longitude: -0.12}},
		{in: " -33.87 , 151.21 ", want: locations.Coordinates{Latitude: -33.87, Longitude: 151.21}},
		{in: "91,0", wantErr: true},
		{in: "0,181", wantErr: true},
		{in: "0;0", wantErr: true},
		{in: "x,0", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParsePosition(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePosition(%q) err = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParsePosition(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
