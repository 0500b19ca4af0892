// Package locations holds the fixed catalog of places shown on the map.
package locations

import "fmt"

// Coordinates is a WGS84 point in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type Location struct {
	Name        string
	Flag        string
	Coordinates Coordinates
}

// Label is the caption used on the location's button.
func (l Location) Label() string {
	return fmt.Sprintf("%s -> %s", l.Name, l.Flag)
}

// ColumnSize is the number of buttons per column.
const ColumnSize = 3

var catalog = []Location{
	{Name: "Rio de Janeiro", Flag: "BR", Coordinates: Coordinates{Latitude: -22.906847, Longitude: -43.172897}},
	{Name: "New York", Flag: "US", Coordinates: Coordinates{Latitude: 40.712776, Longitude: -74.005974}},
	{Name: "London", Flag: "GB", Coordinates: Coordinates{Latitude: 51.507222, Longitude: -0.1275}},
	{Name: "Tokyo", Flag: "JP", Coordinates: Coordinates{Latitude: 35.689487, Longitude: 139.691711}},
	{Name: "Sydney", Flag: "AU", Coordinates: Coordinates{Latitude: -33.868820, Longitude: 151.209290}},
	{Name: "Cairo", Flag: "EG", Coordinates: Coordinates{Latitude: 30.044420, Longitude: 31.235712}},
}

// All returns the catalog in display order. The slice is a copy.
func All() []Location {
	out := make([]Location, len(catalog))
	copy(out, catalog)
	return out
}

// Columns splits the catalog into the left column (first three entries)
// and the right column (next three).
func Columns() (left, right []Location) {
	all := All()
	return all[:ColumnSize], all[ColumnSize : 2*ColumnSize]
}
