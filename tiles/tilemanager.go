package tiles

import (
	"context"
	"image"
	"log"
	"sync"

	"gioui.org/op/paint"
	"golang.org/x/sync/singleflight"

	"github.com/olablt/worldlocations/tiles/worker"
)

// DefaultCacheSize is the number of decoded tiles kept in memory.
const DefaultCacheSize = 512

type TileProvider interface {
	GetTile(ctx context.Context, tile Tile) (image.Image, error)
}

// TileManager serves tiles to the frame loop without blocking it. Missing
// tiles are loaded on the worker pool while a placeholder is shown.
type TileManager struct {
	provider    TileProvider
	placeholder TileProvider
	cache       Cache
	fallbacks   Cache
	pool        *worker.Pool
	group       singleflight.Group

	mu      sync.Mutex
	loading map[string]bool
	onLoad  func()
}

// NewTileManager returns a manager loading from provider. placeholder and pool may be nil:
// without a placeholder Lookup reports nothing until the tile is loaded, and without a
// pool Prefetch loads on a new goroutine.
func NewTileManager(provider, placeholder TileProvider, pool *worker.Pool) *TileManager {
	return &TileManager{
		provider:    provider,
		placeholder: placeholder,
		cache:       NewMemoryCache(DefaultCacheSize),
		fallbacks:   NewMemoryCache(DefaultCacheSize),
		pool:        pool,
		loading:     make(map[string]bool),
	}
}

func (tm *TileManager) GetCache() Cache {
	return tm.cache
}

// SetOnLoadCallback registers fn to be called after a tile finished loading.
func (tm *TileManager) SetOnLoadCallback(fn func()) {
	tm.mu.Lock()
	tm.onLoad = fn
	tm.mu.Unlock()
}

// Load returns the tile, fetching it from the provider if it is not cached.
// Concurrent loads of the same tile share one provider call.
func (tm *TileManager) Load(ctx context.Context, tile Tile) (paint.ImageOp, error) {
	tile = ConstrainTile(tile)
	key := GetTileKey(tile)
	if cached, ok := tm.cache.Get(key); ok {
		return cached, nil
	}

	v, err, _ := tm.group.Do(key, func() (interface{}, error) {
		if cached, ok := tm.cache.Get(key); ok {
			return cached, nil
		}
		img, err := tm.provider.GetTile(ctx, tile)
		if err != nil {
			return nil, err
		}
		imgOp := paint.NewImageOp(img)
		tm.cache.Set(key, imgOp)

		tm.mu.Lock()
		onLoad := tm.onLoad
		tm.mu.Unlock()
		if onLoad != nil {
			onLoad()
		}
		return imgOp, nil
	})
	if err != nil {
		return paint.ImageOp{}, err
	}
	return v.(paint.ImageOp), nil
}

// Lookup returns the cached tile, or the placeholder if the tile is not loaded yet.
// The second result is false when neither is available.
func (tm *TileManager) Lookup(tile Tile) (paint.ImageOp, bool) {
	tile = ConstrainTile(tile)
	key := GetTileKey(tile)
	if cached, ok := tm.cache.Get(key); ok {
		return cached, true
	}
	if tm.placeholder == nil {
		return paint.ImageOp{}, false
	}
	if fallback, ok := tm.fallbacks.Get(key); ok {
		return fallback, true
	}
	img, err := tm.placeholder.GetTile(context.Background(), tile)
	if err != nil {
		return paint.ImageOp{}, false
	}
	imgOp := paint.NewImageOp(img)
	tm.fallbacks.Set(key, imgOp)
	return imgOp, true
}

// Prefetch schedules a background load of the tile unless it is cached or
// already scheduled.
func (tm *TileManager) Prefetch(ctx context.Context, tile Tile) {
	tile = ConstrainTile(tile)
	key := GetTileKey(tile)
	if _, ok := tm.cache.Get(key); ok {
		return
	}

	tm.mu.Lock()
	if tm.loading[key] {
		tm.mu.Unlock()
		return
	}
	tm.loading[key] = true
	tm.mu.Unlock()

	work := func(ctx context.Context) error {
		defer tm.doneLoading(key)
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := tm.Load(ctx, tile)
		return err
	}

	if tm.pool == nil {
		go func() {
			if err := work(ctx); err != nil {
				log.Printf("Error loading tile %s: %v", key, err)
			}
		}()
		return
	}
	if !tm.pool.Submit(worker.Task{Ctx: ctx, Name: "tile " + key, Work: work}) {
		tm.doneLoading(key)
	}
}

func (tm *TileManager) doneLoading(key string) {
	tm.mu.Lock()
	delete(tm.loading, key)
	tm.mu.Unlock()
}
