package screen

// Region is the visible map area: a center point and the spans shown around it.
type Region struct {
	Latitude       float64
	Longitude      float64
	LatitudeDelta  float64
	LongitudeDelta float64
}

// InitialRegion is the whole-world view shown before any fix or button press.
var InitialRegion = Region{
	Latitude:       0,
	Longitude:      0,
	LatitudeDelta:  15,
	LongitudeDelta: 15,
}

// WithCoordinates returns r moved to lat/lon. The spans are kept.
func WithCoordinates(r Region, lat, lon float64) Region {
	r.Latitude = lat
	r.Longitude = lon
	return r
}
