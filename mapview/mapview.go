package mapview

import (
	"context"
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/olablt/worldlocations/tiles"
)

var (
	backgroundColor = color.NRGBA{R: 0xAA, G: 0xD3, B: 0xDF, A: 0xFF}
	outlineColor    = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	labelBackground = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xD0}
	labelColor      = color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF}
)

// Marker is a titled pin drawn at a geographic position.
type Marker struct {
	Position tiles.LatLng
	Title    string
	Color    color.NRGBA
}

type span struct {
	lat, lng float64
}

type MapView struct {
	TileManager *tiles.TileManager
	Theme       *material.Theme
	Center      tiles.LatLng
	Zoom        int
	MinZoom     int
	MaxZoom     int

	markers      []Marker
	span         *span // region spans to fit once the size is known
	size         image.Point
	visibleTiles []tiles.Tile
	ctx          context.Context
	//
	dragging    bool
	lastDragPos f32.Point
}

func New(tm *tiles.TileManager, th *material.Theme) *MapView {
	return &MapView{
		TileManager: tm,
		Theme:       th,
		Zoom:        2,
		MinZoom:     1,
		MaxZoom:     18,
		ctx:         context.Background(),
	}
}

// SetContext sets the context background tile loads run under.
func (mv *MapView) SetContext(ctx context.Context) {
	mv.ctx = ctx
}

// SetRegion centers the map on center and picks the deepest zoom that still
// shows latDelta by lngDelta degrees.
func (mv *MapView) SetRegion(center tiles.LatLng, latDelta, lngDelta float64) {
	mv.Center = tiles.LatLng{Lat: tiles.ClampLat(center.Lat), Lng: center.Lng}
	mv.span = &span{lat: latDelta, lng: lngDelta}
	mv.fitSpan()
	mv.updateVisibleTiles()
}

func (mv *MapView) SetMarkers(markers []Marker) {
	mv.markers = markers
}

func (mv *MapView) Markers() []Marker {
	return mv.markers
}

func (mv *MapView) fitSpan() {
	if mv.span == nil || mv.size.X == 0 || mv.size.Y == 0 {
		return
	}
	mv.Zoom = ZoomForSpan(mv.span.lat, mv.span.lng, mv.size, mv.MinZoom, mv.MaxZoom)
}

// ZoomForSpan returns the deepest zoom level, within [minZoom, maxZoom], at which
// the spans fit in size. Latitude is measured at the equator.
func ZoomForSpan(latDelta, lngDelta float64, size image.Point, minZoom, maxZoom int) int {
	if size.X <= 0 || size.Y <= 0 {
		return minZoom
	}
	zoom := maxZoom
	if lngDelta > 0 {
		zoom = min(zoom, fitZoom(lngDelta/360, size.X))
	}
	if latDelta > 0 {
		zoom = min(zoom, fitZoom(latDelta/360, size.Y))
	}
	return max(minZoom, min(zoom, maxZoom))
}

func fitZoom(fraction float64, px int) int {
	return int(math.Floor(math.Log2(float64(px) / (fraction * tiles.TileSize))))
}

// ScreenPoint projects ll into view coordinates. Horizontally the nearest
// copy of the wrapped world is used.
func (mv *MapView) ScreenPoint(ll tiles.LatLng) image.Point {
	cx, cy := tiles.CalculateWorldCoordinates(mv.Center, mv.Zoom)
	px, py := tiles.CalculateWorldCoordinates(ll, mv.Zoom)
	world := tiles.WorldSize(mv.Zoom)
	dx := math.Mod(px-cx, world)
	if dx > world/2 {
		dx -= world
	} else if dx < -world/2 {
		dx += world
	}
	return image.Point{
		X: mv.size.X/2 + int(math.Round(dx)),
		Y: mv.size.Y/2 + int(math.Round(py-cy)),
	}
}

func (mv *MapView) Layout(gtx layout.Context) layout.Dimensions {
	tag := mv

	// process events
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  tag,
			Kinds:   pointer.Scroll | pointer.Drag | pointer.Press | pointer.Release | pointer.Cancel,
			ScrollY: pointer.ScrollRange{Min: -10, Max: 10},
		})
		if !ok {
			break
		}

		x, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch x.Kind {
		case pointer.Press:
			mv.dragging = true
			mv.lastDragPos = x.Position
		case pointer.Drag:
			if mv.dragging {
				delta := x.Position.Sub(mv.lastDragPos)
				mv.pan(float64(delta.X), float64(delta.Y))
				mv.lastDragPos = x.Position
			}
		case pointer.Scroll:
			switch {
			case x.Scroll.Y < 0:
				mv.zoomAround(x.Position, mv.Zoom+1)
			case x.Scroll.Y > 0:
				mv.zoomAround(x.Position, mv.Zoom-1)
			}
		case pointer.Release, pointer.Cancel:
			mv.dragging = false
		}
	}

	// Update size if changed
	if mv.size != gtx.Constraints.Max {
		mv.size = gtx.Constraints.Max
		mv.fitSpan()
		mv.updateVisibleTiles()
	}

	// Confine the area of interest to a gtx Max
	defer clip.Rect{Max: mv.size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, tag)
	paint.Fill(gtx.Ops, backgroundColor)

	mv.drawTiles(gtx)
	for _, m := range mv.markers {
		mv.drawMarker(gtx, m)
	}

	return layout.Dimensions{Size: mv.size}
}

func (mv *MapView) drawTiles(gtx layout.Context) {
	if mv.TileManager == nil {
		return
	}
	// Calculate Center position in pixels at current zoom level
	centerWorldPx, centerWorldPy := tiles.CalculateWorldCoordinates(mv.Center, mv.Zoom)

	// Calculate screen center
	screenCenterX := mv.size.X >> 1
	screenCenterY := mv.size.Y >> 1

	for _, tile := range mv.visibleTiles {
		imgOp, ok := mv.TileManager.Lookup(tile)
		if !ok {
			continue
		}

		// Calculate tile position in pixels
		tileWorldPx := float64(tile.X * tiles.TileSize)
		tileWorldPy := float64(tile.Y * tiles.TileSize)

		// Calculate final screen position
		finalX := screenCenterX + int(math.Round(tileWorldPx-centerWorldPx))
		finalY := screenCenterY + int(math.Round(tileWorldPy-centerWorldPy))

		// Create transform stack and apply offset
		transform := op.Offset(image.Point{X: finalX, Y: finalY}).Push(gtx.Ops)

		// Draw the tile
		imgOp.Add(gtx.Ops)
		paint.PaintOp{}.Add(gtx.Ops)
		transform.Pop()
	}
}

func (mv *MapView) drawMarker(gtx layout.Context, m Marker) {
	p := mv.ScreenPoint(m.Position)
	r := gtx.Dp(unit.Dp(7))
	outer := r + gtx.Dp(unit.Dp(2))

	// White ring, then the colored dot on top
	paint.FillShape(gtx.Ops, outlineColor, clip.Ellipse{
		Min: p.Sub(image.Pt(outer, outer)),
		Max: p.Add(image.Pt(outer, outer)),
	}.Op(gtx.Ops))
	paint.FillShape(gtx.Ops, m.Color, clip.Ellipse{
		Min: p.Sub(image.Pt(r, r)),
		Max: p.Add(image.Pt(r, r)),
	}.Op(gtx.Ops))

	if mv.Theme == nil || m.Title == "" {
		return
	}

	// Title sits to the right of the dot
	trans := op.Offset(image.Pt(p.X+outer+gtx.Dp(unit.Dp(2)), p.Y-r)).Push(gtx.Ops)
	defer trans.Pop()

	lbl := material.Label(mv.Theme, unit.Sp(12), m.Title)
	lbl.Color = labelColor
	lgtx := gtx
	lgtx.Constraints.Min = image.Point{}

	// Record the label to size its background
	macro := op.Record(gtx.Ops)
	dims := lbl.Layout(lgtx)
	call := macro.Stop()

	paint.FillShape(gtx.Ops, labelBackground, clip.RRect{
		Rect: image.Rectangle{Max: dims.Size},
		SE:   gtx.Dp(unit.Dp(2)), SW: gtx.Dp(unit.Dp(2)), NE: gtx.Dp(unit.Dp(2)), NW: gtx.Dp(unit.Dp(2)),
	}.Op(gtx.Ops))
	call.Add(gtx.Ops)
}

// pan moves the map by a screen-space delta in pixels.
func (mv *MapView) pan(dx, dy float64) {
	wx, wy := tiles.CalculateWorldCoordinates(mv.Center, mv.Zoom)
	world := tiles.WorldSize(mv.Zoom)

	// Move opposite to the drag, clamping vertically to the world
	wx -= dx
	wy = max(0, min(wy-dy, world))
	center := tiles.WorldToLatLng(wx, wy, mv.Zoom)
	// Wrap longitude back into [-180, 180)
	center.Lng = math.Mod(center.Lng+540, 360) - 180
	mv.Center = center
	mv.updateVisibleTiles()
}

// zoomAround changes the zoom level keeping the geographic point under pos fixed.
func (mv *MapView) zoomAround(pos f32.Point, newZoom int) {
	oldZoom := mv.Zoom
	mv.Zoom = max(mv.MinZoom, min(newZoom, mv.MaxZoom))
	if oldZoom == mv.Zoom {
		return
	}
	mv.span = nil

	mouseOffsetX := float64(pos.X) - float64(mv.size.X>>1)
	mouseOffsetY := float64(pos.Y) - float64(mv.size.Y>>1)
	worldX, worldY := tiles.CalculateWorldCoordinates(mv.Center, oldZoom)

	// Scale the point under the cursor and shift the center to keep it there
	zoomFactor := math.Pow(2, float64(mv.Zoom-oldZoom))
	newWorldX := (worldX+mouseOffsetX)*zoomFactor - mouseOffsetX
	newWorldY := (worldY+mouseOffsetY)*zoomFactor - mouseOffsetY
	mv.Center = tiles.WorldToLatLng(newWorldX, newWorldY, mv.Zoom)
	mv.Center.Lat = tiles.ClampLat(mv.Center.Lat)

	mv.updateVisibleTiles()
}

func (mv *MapView) updateVisibleTiles() {
	mv.visibleTiles = tiles.CalculateVisibleTiles(mv.Center, mv.Zoom, mv.size)
	if mv.TileManager == nil {
		return
	}
	for _, tile := range mv.visibleTiles {
		mv.TileManager.Prefetch(mv.ctx, tile)
	}
}
