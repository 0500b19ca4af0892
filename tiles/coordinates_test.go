package tiles

import (
	"image"
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestLatLngToTile(t *testing.T) {
	tests := []struct {
		name string
		ll   LatLng
		zoom int
		want Tile
	}{
		{"origin z0", LatLng{0, 0}, 0, Tile{0, 0, 0}},
		{"origin z1", LatLng{0, 0}, 1, Tile{1, 1, 1}},
		{"london z12", LatLng{51.507222, -0.1275}, 12, Tile{2046, 1362, 12}},
		{"north-west z2", LatLng{80, -179}, 2, Tile{0, 0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LatLngToTile(tt.ll, tt.zoom); got != tt.want {
				t.Fatalf("LatLngToTile = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWorldRoundTrip(t *testing.T) {
	for _, ll := range []LatLng{{0, 0}, {51.5, -0.12}, {-33.87, 151.21}, {85, 179.9}} {
		for _, zoom := range []int{0, 5, 12} {
			x, y := CalculateWorldCoordinates(ll, zoom)
			got := WorldToLatLng(x, y, zoom)
			if !near(got.Lat, ll.Lat) || !near(got.Lng, ll.Lng) {
				t.Errorf("round trip %+v at z%d = %+v", ll, zoom, got)
			}
		}
	}
}

func TestClampLat(t *testing.T) {
	if ClampLat(90) != MaxLatitude || ClampLat(-90) != -MaxLatitude || ClampLat(12) != 12 {
		t.Fatal("ClampLat")
	}
	x, y := CalculateWorldCoordinates(LatLng{Lat: 90}, 1)
	if math.IsInf(y, 0) || math.IsNaN(y) || math.IsNaN(x) {
		t.Fatalf("pole projected to %v,%v", x, y)
	}
}

func TestTileToLatLng(t *testing.T) {
	got := TileToLatLng(Tile{X: 1, Y: 1, Zoom: 1})
	if !near(got.Lat, 0) || !near(got.Lng, 0) {
		t.Fatalf("TileToLatLng = %+v, want 0,0", got)
	}
}

func TestConstrainTile(t *testing.T) {
	tests := []struct{ in, want Tile }{
		{Tile{-1, 0, 2}, Tile{3, 0, 2}},
		{Tile{4, 1, 2}, Tile{0, 1, 2}},
		{Tile{1, -3, 2}, Tile{1, 0, 2}},
		{Tile{1, 9, 2}, Tile{1, 3, 2}},
	}
	for _, tt := range tests {
		if got := ConstrainTile(tt.in); got != tt.want {
			t.Errorf("ConstrainTile(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestCalculateVisibleTiles(t *testing.T) {
	visible := CalculateVisibleTiles(LatLng{0, 0}, 3, image.Pt(512, 512))
	if len(visible) != 16 {
		t.Fatalf("visible = %d, want 16", len(visible))
	}
	centre := LatLngToTile(LatLng{0, 0}, 3)
	found := false
	for _, tile := range visible {
		if tile == centre {
			found = true
		}
		if tile.Y < 0 || tile.Y >= 8 {
			t.Errorf("tile row out of range: %+v", tile)
		}
	}
	if !found {
		t.Fatal("centre tile not visible")
	}

	// At zoom 0 only the single row exists.
	for _, tile := range CalculateVisibleTiles(LatLng{0, 0}, 0, image.Pt(512, 512)) {
		if tile.Y != 0 {
			t.Errorf("z0 tile %+v", tile)
		}
	}
}

func TestMetersPerPixel(t *testing.T) {
	got := CalculateMetersPerPixel(0, 0)
	if math.Abs(got-156543.03) > 0.1 {
		t.Fatalf("meters per pixel at z0 = %v", got)
	}
	if CalculateMetersPerPixel(60, 1) >= CalculateMetersPerPixel(0, 1) {
		t.Fatal("meters per pixel should shrink away from the equator")
	}
}
