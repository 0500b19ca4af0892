package tiles

import (
	"image"
	"math"
)

const (
	TileSize           = 256
	earthCircumference = 40075016.686 // meters at equator

	// MaxLatitude is the Web Mercator cut-off; the projection diverges at the poles.
	MaxLatitude = 85.05112878
)

// Tile represents a map tile coordinates
type Tile struct {
	X, Y, Zoom int
}

// LatLng represents a geographical point
type LatLng struct {
	Lat, Lng float64
}

// ClampLat limits the latitude to the range Web Mercator can project.
func ClampLat(lat float64) float64 {
	return max(-MaxLatitude, min(lat, MaxLatitude))
}

// LatLngToTile converts geographical coordinates to tile coordinates
func LatLngToTile(ll LatLng, zoom int) Tile {
	x, y := CalculateWorldCoordinates(ll, zoom)
	return Tile{
		X:    int(math.Floor(x / TileSize)),
		Y:    int(math.Floor(y / TileSize)),
		Zoom: zoom,
	}
}

// TileToLatLng converts tile coordinates to geographical coordinates (north-west corner of the tile)
func TileToLatLng(tile Tile) LatLng {
	return WorldToLatLng(float64(tile.X*TileSize), float64(tile.Y*TileSize), tile.Zoom)
}

// WorldSize is the side of the square world map in pixels at the zoom level.
func WorldSize(zoom int) float64 {
	return TileSize * math.Pow(2, float64(zoom))
}

// CalculateWorldCoordinates converts geographical coordinates to world pixel coordinates at given zoom level
func CalculateWorldCoordinates(ll LatLng, zoom int) (float64, float64) {
	size := WorldSize(zoom)
	latRad := ClampLat(ll.Lat) * math.Pi / 180
	worldX := size * (ll.Lng + 180) / 360
	worldY := size * (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2
	return worldX, worldY
}

// WorldToLatLng converts world pixel coordinates back to geographical coordinates
func WorldToLatLng(worldX, worldY float64, zoom int) LatLng {
	size := WorldSize(zoom)
	lng := worldX/size*360 - 180
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*worldY/size)))
	return LatLng{Lat: latRad * 180 / math.Pi, Lng: lng}
}

// CalculateMetersPerPixel calculates the meters per pixel at a given latitude and zoom level
func CalculateMetersPerPixel(latitude float64, zoom int) float64 {
	return earthCircumference * math.Cos(latitude*math.Pi/180) / WorldSize(zoom)
}

// ConstrainTile wraps the tile horizontally and clamps it vertically for the zoom level.
func ConstrainTile(tile Tile) Tile {
	n := 1 << tile.Zoom
	tile.X = ((tile.X % n) + n) % n
	tile.Y = max(0, min(tile.Y, n-1))
	return tile
}

// CalculateVisibleTiles calculates which tiles are visible given a center point and screen size.
// Tiles are returned unconstrained so the caller can place them; use ConstrainTile to fetch.
func CalculateVisibleTiles(center LatLng, zoom int, screenSize image.Point) []Tile {
	centerTile := LatLngToTile(center, zoom)
	tilesX := (screenSize.X / TileSize) + 2 // Add buffer tiles
	tilesY := (screenSize.Y / TileSize) + 2

	startX := centerTile.X - tilesX/2
	startY := centerTile.Y - tilesY/2
	n := 1 << zoom

	visibleTiles := make([]Tile, 0, tilesX*tilesY)
	for x := startX; x < startX+tilesX; x++ {
		for y := startY; y < startY+tilesY; y++ {
			if y < 0 || y >= n {
				continue
			}
			visibleTiles = append(visibleTiles, Tile{X: x, Y: y, Zoom: zoom})
		}
	}
	return visibleTiles
}
