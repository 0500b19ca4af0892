package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/olablt/worldlocations/locations"
)

func TestStaticPermission(t *testing.T) {
	ctx := context.Background()
	if ok, err := (StaticPermission{Granted: true}).RequestPermission(ctx, FineLocation); !ok || err != nil {
		t.Fatalf("granted = %v, %v", ok, err)
	}
	if ok, err := (StaticPermission{}).RequestPermission(ctx, FineLocation); ok || err != nil {
		t.Fatalf("denied = %v, %v", ok, err)
	}
	if _, err := (StaticPermission{Granted: true}).RequestPermission(ctx, "camera"); !errors.Is(err, ErrUnknownCapability) {
		t.Fatalf("err = %v, want ErrUnknownCapability", err)
	}
}

func TestFixedPosition(t *testing.T) {
	want := locations.Coordinates{Latitude: 10, Longitude: 20}
	got, err := FixedPosition{Coordinates: want}.CurrentPosition(context.Background(), DefaultPositionOptions)
	if err != nil || got != want {
		t.Fatalf("CurrentPosition = %+v, %v", got, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (FixedPosition{}).CurrentPosition(ctx, DefaultPositionOptions); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestIPPosition(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","lat":10,"lon":20,"city":"Somewhere"}`))
	}))
	defer srv.Close()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := NewIPPosition(srv.URL, "test")
	p.now = func() time.Time { return now }

	got, err := p.CurrentPosition(context.Background(), DefaultPositionOptions)
	if err != nil {
		t.Fatal(err)
	}
	if got != (locations.Coordinates{Latitude: 10, Longitude: 20}) {
		t.Fatalf("fix = %+v", got)
	}

	// Within MaximumAge the cached fix is reused.
	now = now.Add(500 * time.Millisecond)
	if _, err := p.CurrentPosition(context.Background(), DefaultPositionOptions); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("requests = %d, want 1", got)
	}

	now = now.Add(2 * time.Second)
	if _, err := p.CurrentPosition(context.Background(), DefaultPositionOptions); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Fatalf("requests = %d, want 2", got)
	}
}

func TestIPPositionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	_, err := NewIPPosition(srv.URL, "").CurrentPosition(context.Background(), DefaultPositionOptions)
	if !errors.Is(err, ErrNoPosition) {
		t.Fatalf("err = %v, want ErrNoPosition", err)
	}
}

func TestIPPositionMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>captive portal</html>`))
	}))
	defer srv.Close()

	_, err := NewIPPosition(srv.URL, "").CurrentPosition(context.Background(), DefaultPositionOptions)
	if !errors.Is(err, ErrNoPosition) {
		t.Fatalf("err = %v, want ErrNoPosition", err)
	}
}

func TestIPPositionStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewIPPosition(srv.URL, "").CurrentPosition(context.Background(), DefaultPositionOptions)
	if !errors.Is(err, ErrNoPosition) {
		t.Fatalf("err = %v, want ErrNoPosition", err)
	}
}

func TestIPPositionTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	opts := PositionOptions{Timeout: 50 * time.Millisecond}
	start := time.Now()
	_, err := NewIPPosition(srv.URL, "").CurrentPosition(context.Background(), opts)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrNoPosition) {
		t.Fatalf("err = %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout not honoured")
	}
}
