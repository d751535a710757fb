package mapview

import (
	"image"
	"image/color"
	"math"
	"sync/atomic"

	"github.com/sudorandom/hiway/pkg/utils"
)

// Layer is anything the map can stack and draw.
type Layer interface {
	ID() string
	Draw(dst *image.RGBA, proj Projection)

	base() *layerBase
}

// positioned is implemented by layers anchored to geographic coordinates.
type positioned interface {
	positions() []LatLng
}

// invalidPosition returns the first coordinate of l outside the map's bounds.
func invalidPosition(l Layer) (LatLng, bool) {
	p, ok := l.(positioned)
	if !ok {
		return LatLng{}, false
	}
	for _, ll := range p.positions() {
		if !ll.Valid() {
			return ll, true
		}
	}
	return LatLng{}, false
}

type layerBase struct {
	id string
	m  atomic.Pointer[Map]
}

func (b *layerBase) ID() string { return b.id }
func (b *layerBase) base() *layerBase { return b }

// Map returns the map the layer is attached to, or nil.
func (b *layerBase) Map() *Map { return b.m.Load() }

// PathOptions mirrors the usual vector styling knobs: stroke and fill are independent.
type PathOptions struct {
	Stroke  bool
	Color   color.RGBA
	Weight  float64
	Opacity float64

	Fill        bool
	FillColor   color.RGBA
	FillOpacity float64
}

func (o PathOptions) strokeColor() color.NRGBA { return utils.WithAlpha(o.Color, o.Opacity) }
func (o PathOptions) fillColor() color.NRGBA { return utils.WithAlpha(o.FillColor, o.FillOpacity) }

func projectAll(proj Projection, lls []LatLng) []utils.Point {
	pts := make([]utils.Point, len(lls))
	for i, ll := range lls {
		x, y := proj.Project(ll)
		pts[i] = utils.Point{X: x, Y: y}
	}
	return pts
}

// Polygon is a closed, optionally filled ring.
type Polygon struct {
	layerBase
	Ring    []LatLng
	Options PathOptions
}

func NewPolygon(ring []LatLng, opts PathOptions) *Polygon {
	return &Polygon{Ring: append([]LatLng(nil), ring...), Options: opts}
}

func (p *Polygon) positions() []LatLng { return p.Ring }

func (p *Polygon) Draw(dst *image.RGBA, proj Projection) {
	pts := projectAll(proj, p.Ring)
	if p.Options.Fill {
		utils.FillPolygon(dst, pts, p.Options.fillColor())
	}
	if p.Options.Stroke && p.Options.Weight > 0 {
		utils.StrokeRing(dst, pts, p.Options.Weight, p.Options.strokeColor())
	}
}

// Circle is a disc with a radius in meters, so it scales with zoom.
type Circle struct {
	layerBase
	Center  LatLng
	Radius  float64
	Options PathOptions
}

func NewCircle(center LatLng, radius float64, opts PathOptions) *Circle {
	return &Circle{Center: center, Radius: radius, Options: opts}
}

func (c *Circle) positions() []LatLng { return []LatLng{c.Center} }

func (c *Circle) Draw(dst *image.RGBA, proj Projection) {
	x, y := proj.Project(c.Center)
	r := proj.RadiusPixels(c.Center, c.Radius)
	center := utils.Point{X: x, Y: y}
	if c.Options.Fill {
		utils.FillCircle(dst, center, r, c.Options.fillColor())
	}
	if c.Options.Stroke && c.Options.Weight > 0 {
		hw := c.Options.Weight / 2
		utils.FillRing(dst, center, math.Max(r-hw, 0), r+hw, c.Options.strokeColor())
	}
}

// Polyline is an open path.
type Polyline struct {
	layerBase
	Path    []LatLng
	Options PathOptions
}

func NewPolyline(path []LatLng, opts PathOptions) *Polyline {
	return &Polyline{Path: append([]LatLng(nil), path...), Options: opts}
}

func (p *Polyline) positions() []LatLng { return p.Path }

func (p *Polyline) Draw(dst *image.RGBA, proj Projection) {
	if !p.Options.Stroke {
		return
	}
	utils.StrokePolyline(dst, projectAll(proj, p.Path), p.Options.Weight, p.Options.strokeColor())
}

// DivIcon is a round badge drawn centered on a marker's position.
type DivIcon struct {
	Size        float64
	Fill        color.RGBA
	Border      color.RGBA
	BorderWidth float64
	Label       string
	LabelColor  color.RGBA
}

// Marker pins an icon to a position. The icon keeps its pixel size at every zoom.
type Marker struct {
	layerBase
	Position LatLng
	Icon     DivIcon
}

func NewMarker(pos LatLng, icon DivIcon) *Marker {
	return &Marker{Position: pos, Icon: icon}
}

func (m *Marker) positions() []LatLng { return []LatLng{m.Position} }

func (m *Marker) Draw(dst *image.RGBA, proj Projection) {
	x, y := proj.Project(m.Position)
	c := utils.Point{X: x, Y: y}
	r := m.Icon.Size / 2
	utils.FillCircle(dst, c, r, m.Icon.Fill)
	if m.Icon.BorderWidth > 0 {
		utils.FillRing(dst, c, r-m.Icon.BorderWidth, r, m.Icon.Border)
	}
	if m.Icon.Label != "" {
		utils.DrawTextCentered(dst, m.Icon.Label, int(x), int(y), m.Icon.LabelColor)
	}
}
