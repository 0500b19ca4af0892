package screen

import (
	"context"
	"image/color"
	"log"

	"github.com/olablt/worldlocations/geo"
	"github.com/olablt/worldlocations/locations"
)

// UserLocationTitle is the title of the marker drawn at the device position.
const UserLocationTitle = "Your Location"

var (
	LocationColor = color.NRGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF}
	UserColor     = color.NRGBA{R: 0x1E, G: 0x63, B: 0xE9, A: 0xFF}
)

type PermissionProvider interface {
	RequestPermission(ctx context.Context, c geo.Capability) (bool, error)
}

type PositionProvider interface {
	CurrentPosition(ctx context.Context, opts geo.PositionOptions) (locations.Coordinates, error)
}

// Phase tracks the startup permission and position request.
type Phase int

const (
	Idle Phase = iota
	PermissionPending
	PermissionDenied
	PermissionFailed
	PositionPending
	PositionKnown
	PositionFailed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case PermissionPending:
		return "permission pending"
	case PermissionDenied:
		return "permission denied"
	case PermissionFailed:
		return "permission failed"
	case PositionPending:
		return "position pending"
	case PositionKnown:
		return "position known"
	case PositionFailed:
		return "position failed"
	}
	return "unknown"
}

// Marker describes a pin on the map.
type Marker struct {
	Coordinate locations.Coordinates
	Title      string
	Color      color.NRGBA
}

// Controller owns the screen state. All state is read and written on the
// UI goroutine; results of the startup request are queued and applied by
// Update.
type Controller struct {
	perms PermissionProvider
	pos   PositionProvider
	opts  geo.PositionOptions

	catalog []locations.Location
	region  Region
	user    *locations.Coordinates
	phase   Phase

	// counts region writes, including writes of an unchanged value
	regionVersion uint64

	started bool
	pending chan func(*Controller)
	refresh chan<- struct{}
	done    chan struct{}
}

// New returns a controller in its initial state. refresh, if not nil, is
// signalled whenever a queued result is waiting to be applied.
func New(perms PermissionProvider, pos PositionProvider, refresh chan<- struct{}) *Controller {
	return &Controller{
		perms:   perms,
		pos:     pos,
		opts:    geo.DefaultPositionOptions,
		catalog: locations.All(),
		region:  InitialRegion,
		pending: make(chan func(*Controller), 4),
		refresh: refresh,
		done:    make(chan struct{}),
	}
}

func (c *Controller) Region() Region { return c.region }

// RegionVersion increases every time the region is set, even to the same value.
func (c *Controller) RegionVersion() uint64 { return c.regionVersion }

func (c *Controller) setRegion(r Region) {
	c.region = r
	c.regionVersion++
}

func (c *Controller) Phase() Phase { return c.phase }

// UserLocation returns the device position, if a fix has arrived.
func (c *Controller) UserLocation() (locations.Coordinates, bool) {
	if c.user == nil {
		return locations.Coordinates{}, false
	}
	return *c.user, true
}

// Done is closed once the startup request has produced its result.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Start requests the location permission and, if granted, one position fix.
// Only the first call has an effect.
func (c *Controller) Start(ctx context.Context) {
	if c.started {
		return
	}
	c.started = true
	c.phase = PermissionPending
	go c.acquire(ctx)
}

func (c *Controller) acquire(ctx context.Context) {
	defer close(c.done)

	granted, err := c.perms.RequestPermission(ctx, geo.FineLocation)
	if err != nil {
		log.Printf("warning: location permission request failed: %v", err)
		c.post(func(c *Controller) { c.phase = PermissionFailed })
		return
	}
	if !granted {
		log.Println("Location not available: permission denied")
		c.post(func(c *Controller) { c.phase = PermissionDenied })
		return
	}

	c.post(func(c *Controller) { c.phase = PositionPending })
	fix, err := c.pos.CurrentPosition(ctx, c.opts)
	if err != nil {
		log.Printf("error: current position: %v", err)
		c.post(func(c *Controller) { c.phase = PositionFailed })
		return
	}

	c.post(func(c *Controller) {
		c.setRegion(WithCoordinates(c.region, fix.Latitude, fix.Longitude))
		if c.user == nil {
			c.user = &fix
		}
		c.phase = PositionKnown
	})
}

func (c *Controller) post(fn func(*Controller)) {
	c.pending <- fn
	if c.refresh != nil {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
}

// Update applies queued startup results. It reports whether state changed.
func (c *Controller) Update() bool {
	changed := false
	for {
		select {
		case fn := <-c.pending:
			fn(c)
			changed = true
		default:
			return changed
		}
	}
}

// Recenter moves the viewport to coords and keeps the spans.
func (c *Controller) Recenter(coords locations.Coordinates) {
	c.setRegion(WithCoordinates(c.region, coords.Latitude, coords.Longitude))
}

// Markers returns one marker per catalog entry, plus the user marker once
// a fix has arrived.
func (c *Controller) Markers() []Marker {
	markers := make([]Marker, 0, len(c.catalog)+1)
	for _, loc := range c.catalog {
		markers = append(markers, Marker{
			Coordinate: loc.Coordinates,
			Title:      loc.Name,
			Color:      LocationColor,
		})
	}
	if c.user != nil {
		markers = append(markers, Marker{
			Coordinate: *c.user,
			Title:      UserLocationTitle,
			Color:      UserColor,
		})
	}
	return markers
}

// Status is the one-line explanation shown when the device position is not
// available, or "" otherwise.
func (c *Controller) Status() string {
	switch c.phase {
	case PermissionDenied:
		return "Location permission denied"
	case PermissionFailed, PositionFailed:
		return "Location unavailable"
	}
	return ""
}
