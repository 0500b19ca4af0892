package screen

import (
	"image"
	"image/color"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/olablt/worldlocations/locations"
	"github.com/olablt/worldlocations/mapview"
	"github.com/olablt/worldlocations/tiles"
)

const Title = "World Locations"

var (
	backgroundColor = color.NRGBA{A: 0xFF}
	accentColor     = color.NRGBA{R: 0xFD, G: 0xB8, B: 0x27, A: 0xFF}
	buttonBorder    = color.NRGBA{R: 0x0F, G: 0x0F, B: 0x0F, A: 0xFF}
	separatorColor  = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	statusColor     = color.NRGBA{R: 0xBB, G: 0xBB, B: 0xBB, A: 0xFF}
)

type locationButton struct {
	location locations.Location
	click    widget.Clickable
}

// Screen lays out the title, the location buttons and the map for a Controller.
type Screen struct {
	ctrl  *Controller
	theme *material.Theme
	Map   *mapview.MapView

	left, right  []*locationButton
	synced       bool
	shownVersion uint64
}

func NewScreen(ctrl *Controller, th *material.Theme, mv *mapview.MapView) *Screen {
	left, right := locations.Columns()
	return &Screen{
		ctrl:  ctrl,
		theme: th,
		Map:   mv,
		left:  newButtons(left),
		right: newButtons(right),
	}
}

func newButtons(locs []locations.Location) []*locationButton {
	out := make([]*locationButton, len(locs))
	for i, loc := range locs {
		out[i] = &locationButton{location: loc}
	}
	return out
}

func (s *Screen) Layout(gtx layout.Context) layout.Dimensions {
	s.ctrl.Update()
	for _, col := range [][]*locationButton{s.left, s.right} {
		for _, b := range col {
			for b.click.Clicked(gtx) {
				s.ctrl.Recenter(b.location.Coordinates)
			}
		}
	}
	s.syncMap()

	paint.Fill(gtx.Ops, backgroundColor)

	return layout.Inset{Top: unit.Dp(30)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(s.layoutTitle),
			layout.Rigid(s.layoutStatus),
			layout.Rigid(s.layoutButtons),
			layout.Rigid(layoutSeparator),
			layout.Flexed(1, s.Map.Layout),
		)
	})
}

// syncMap pushes controller state into the map view. The region is pushed
// only after the controller set it, so user panning survives other frames
// but a repeated press of the same button still recenters.
func (s *Screen) syncMap() {
	if version := s.ctrl.RegionVersion(); !s.synced || version != s.shownVersion {
		region := s.ctrl.Region()
		s.Map.SetRegion(tiles.LatLng{Lat: region.Latitude, Lng: region.Longitude}, region.LatitudeDelta, region.LongitudeDelta)
		s.synced = true
		s.shownVersion = version
	}
	s.Map.SetMarkers(mapMarkers(s.ctrl.Markers()))
}

func mapMarkers(markers []Marker) []mapview.Marker {
	out := make([]mapview.Marker, len(markers))
	for i, m := range markers {
		out[i] = mapview.Marker{
			Position: tiles.LatLng{Lat: m.Coordinate.Latitude, Lng: m.Coordinate.Longitude},
			Title:    m.Title,
			Color:    m.Color,
		}
	}
	return out
}

func (s *Screen) layoutTitle(gtx layout.Context) layout.Dimensions {
	return layout.Inset{Top: unit.Dp(10), Bottom: unit.Dp(10)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		lbl := material.Label(s.theme, unit.Sp(28), Title)
		lbl.Color = accentColor
		lbl.Font.Weight = font.Bold
		lbl.Alignment = text.Middle
		gtx.Constraints.Min.X = gtx.Constraints.Max.X
		return lbl.Layout(gtx)
	})
}

func (s *Screen) layoutStatus(gtx layout.Context) layout.Dimensions {
	status := s.ctrl.Status()
	if status == "" {
		return layout.Dimensions{}
	}
	lbl := material.Label(s.theme, unit.Sp(13), status)
	lbl.Color = statusColor
	lbl.Alignment = text.Middle
	gtx.Constraints.Min.X = gtx.Constraints.Max.X
	return lbl.Layout(gtx)
}

func (s *Screen) layoutButtons(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(1, s.layoutColumn(s.left)),
		layout.Flexed(1, s.layoutColumn(s.right)),
	)
}

func (s *Screen) layoutColumn(buttons []*locationButton) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		children := make([]layout.FlexChild, len(buttons))
		for i, b := range buttons {
			b := b
			children[i] = layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.UniformInset(unit.Dp(5)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					gtx.Constraints.Min.X = gtx.Constraints.Max.X
					border := widget.Border{Color: buttonBorder, CornerRadius: unit.Dp(9), Width: unit.Dp(2)}
					return border.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						btn := material.Button(s.theme, &b.click, b.location.Label())
						btn.Background = accentColor
						btn.Color = buttonBorder
						btn.CornerRadius = unit.Dp(9)
						return btn.Layout(gtx)
					})
				})
			})
		}
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	}
}

func layoutSeparator(gtx layout.Context) layout.Dimensions {
	return layout.Inset{Top: unit.Dp(20)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		size := image.Pt(gtx.Constraints.Max.X, gtx.Dp(unit.Dp(1)))
		paint.FillShape(gtx.Ops, separatorColor, clip.Rect{Max: size}.Op())
		return layout.Dimensions{Size: size}
	})
}
