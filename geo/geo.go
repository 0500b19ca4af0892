// Package geo provides the location permission and position sources the
// screen controller consumes on desktop platforms.
package geo

import (
	"context"
	"errors"
	"time"

	"github.com/olablt/worldlocations/locations"
)

// Capability names a platform permission.
type Capability string

const FineLocation Capability = "android.permission.ACCESS_FINE_LOCATION"

// PositionOptions configures a single position request.
type PositionOptions struct {
	HighAccuracy bool
	// Timeout bounds the whole request; zero means no limit.
	Timeout time.Duration
	// MaximumAge is the oldest cached fix that may be returned instead of a fresh one.
	MaximumAge time.Duration
}

var DefaultPositionOptions = PositionOptions{
	HighAccuracy: true,
	Timeout:      20 * time.Second,
	MaximumAge:   time.Second,
}

var (
	ErrNoPosition        = errors.New("geo: position unavailable")
	ErrUnknownCapability = errors.New("geo: unknown capability")
)

// StaticPermission answers permission requests with a configured result.
type StaticPermission struct {
	Granted bool
}

func (p StaticPermission) RequestPermission(ctx context.Context, c Capability) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if c != FineLocation {
		return false, ErrUnknownCapability
	}
	return p.Granted, nil
}

// FixedPosition always reports the same coordinate.
type FixedPosition struct {
	Coordinates locations.Coordinates
}

func (p FixedPosition) CurrentPosition(ctx context.Context, _ PositionOptions) (locations.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return locations.Coordinates{}, err
	}
	return p.Coordinates, nil
}
