// Package gauge draws the semicircular congestion gauge.
package gauge

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/sudorandom/hiway/pkg/traffic"
	"github.com/sudorandom/hiway/pkg/utils"
)

const (
	Size         = 200
	Radius       = 70
	StrokeWidth  = 20
	NeedleLength = 80
	NeedleWidth  = 3
	HubRadius    = 8
)

var (
	ColorTrack  = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	ColorGreen  = color.RGBA{0x4a, 0xde, 0x80, 0xff}
	ColorYellow = color.RGBA{0xfa, 0xcc, 0x15, 0xff}
	ColorRed    = color.RGBA{0xef, 0x44, 0x44, 0xff}
	ColorNeedle = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// Zone is a coloured span of the arc. Angles are radians in screen
// orientation: π is due left and 2π due right, passing over the top.
type Zone struct {
	Color      color.RGBA
	Start, End float64
}

var Zones = []Zone{
	{ColorGreen, math.Pi, math.Pi + math.Pi/3},
	{ColorYellow, math.Pi + math.Pi/3, math.Pi + 2*math.Pi/3},
	{ColorRed, math.Pi + 2*math.Pi/3, 2 * math.Pi},
}

// NeedleOffset is the needle's angle in degrees from the left end of the arc.
// Each level points at the middle of its zone; anything unrecognised reads as Low.
func NeedleOffset(level traffic.CongestionLevel) float64 {
	switch level {
	case traffic.Medium:
		return 90
	case traffic.High:
		return 150
	}
	return 30
}

// Needle describes the most recently drawn needle.
type Needle struct {
	Level  traffic.CongestionLevel
	Offset float64
	Angle  float64
	Tip    utils.Point
}

// Renderer owns a drawing surface and repaints the whole gauge on each Render.
type Renderer struct {
	surface draw.Image
	needle  Needle
	drawn   bool
}

func New(surface draw.Image) *Renderer {
	return &Renderer{surface: surface}
}

// Render clears the surface and draws the track, the three zones, the needle
// for level and the hub. A nil surface is ignored.
func (r *Renderer) Render(level traffic.CongestionLevel) {
	if r == nil || r.surface == nil {
		return
	}
	dst := r.surface
	origin := dst.Bounds().Min
	c := utils.Point{X: float64(origin.X) + Size/2, Y: float64(origin.Y) + Size/2}

	utils.Clear(dst)
	utils.StrokeArc(dst, c, Radius, StrokeWidth, math.Pi, 2*math.Pi, ColorTrack)
	for _, z := range Zones {
		utils.StrokeArc(dst, c, Radius, StrokeWidth, z.Start, z.End, z.Color)
	}

	offset := NeedleOffset(level)
	angle := math.Pi + offset*math.Pi/180
	tip := utils.Point{X: c.X + NeedleLength*math.Cos(angle), Y: c.Y + NeedleLength*math.Sin(angle)}
	utils.StrokePolyline(dst, []utils.Point{c, tip}, NeedleWidth, ColorNeedle)
	utils.FillCircle(dst, c, HubRadius, ColorNeedle)

	r.needle = Needle{Level: level, Offset: offset, Angle: angle, Tip: tip}
	r.drawn = true
}

// Needle reports the last drawn needle. ok is false before the first Render.
func (r *Renderer) Needle() (n Needle, ok bool) {
	return r.needle, r.drawn
}

// Image renders level onto a fresh transparent Size x Size image.
func Image(level traffic.CongestionLevel) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	New(img).Render(level)
	return img
}
