package main

import (
	"context"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/joho/godotenv"

	"github.com/olablt/worldlocations/config"
	"github.com/olablt/worldlocations/geo"
	"github.com/olablt/worldlocations/mapview"
	"github.com/olablt/worldlocations/screen"
	"github.com/olablt/worldlocations/tiles"
	"github.com/olablt/worldlocations/tiles/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	refresh := make(chan struct{}, 1)
	invalidate := func() {
		select {
		case refresh <- struct{}{}:
		default:
		}
	}

	pool := worker.NewPool(cfg.TileWorkers, 256)
	placeholder := tiles.NewLocalTileProvider()
	var provider tiles.TileProvider = placeholder
	if !cfg.Offline {
		provider = tiles.NewOSMTileProvider(cfg.TileURL, cfg.UserAgent)
	}
	tm := tiles.NewTileManager(provider, placeholder, pool)
	tm.SetOnLoadCallback(invalidate)

	var position screen.PositionProvider = geo.NewIPPosition(cfg.GeoIPURL, cfg.UserAgent)
	if cfg.Position != nil {
		position = geo.FixedPosition{Coordinates: *cfg.Position}
	}
	ctrl := screen.New(geo.StaticPermission{Granted: cfg.PermissionGranted}, position, refresh)

	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))

	ctx, cancel := context.WithCancel(context.Background())
	mv := mapview.New(tm, th)
	mv.SetContext(ctx)
	scr := screen.NewScreen(ctrl, th, mv)

	go func() {
		w := new(app.Window)
		w.Option(
			app.Title(screen.Title),
			app.Size(unit.Dp(420), unit.Dp(800)),
		)
		go func() {
			for range refresh {
				w.Invalidate()
			}
		}()

		ctrl.Start(ctx)

		var ops op.Ops
		for {
			switch e := w.Event().(type) {
			case app.DestroyEvent:
				cancel()
				pool.Shutdown()
				if e.Err != nil {
					log.Fatal(e.Err)
				}
				os.Exit(0)
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				scr.Layout(gtx)
				e.Frame(gtx.Ops)
			}
		}
	}()
	app.Main()
}
