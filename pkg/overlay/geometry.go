package overlay

import (
	"image/color"
	"strconv"

	"github.com/sudorandom/hiway/pkg/mapview"
)

var (
	ColorHeat   = color.RGBA{0xff, 0x5f, 0x5f, 0xff}
	ColorSlow   = color.RGBA{0xef, 0x44, 0x44, 0xff}
	ColorMedium = color.RGBA{0xfa, 0xcc, 0x15, 0xff}
	ColorFast   = color.RGBA{0x4a, 0xde, 0x80, 0xff}
	ColorMarker = color.RGBA{0x8a, 0x93, 0xc0, 0xff}
	ColorWhite  = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

const (
	HeatRadiusMeters = 1000
	SpeedLineWeight  = 5
	SpeedLineOpacity = 0.7
	MarkerSize       = 48
	MarkerBorder     = 2
)

// Named sites the fixed overlays are anchored to.
var (
	CBD        = mapview.LatLng{Lat: 1.3521, Lng: 103.8198}
	Orchard    = mapview.LatLng{Lat: 1.334, Lng: 103.8465}
	JurongEast = mapview.LatLng{Lat: 1.2966, Lng: 103.7764}
	Changi     = mapview.LatLng{Lat: 1.3644, Lng: 103.9915}
	BuonaVista = mapview.LatLng{Lat: 1.3099, Lng: 103.7775}
)

// Geometry is one overlay shape. The set of implementations is closed.
type Geometry interface {
	// Layer builds a fresh, unattached map layer for the shape.
	Layer() mapview.Layer

	geometry()
}

// HeatCircle marks a dwell-time hotspot. Intensity in [0,1] is the fill opacity.
type HeatCircle struct {
	Center    mapview.LatLng
	Radius    float64
	Intensity float64
}

func (HeatCircle) geometry() {}

func (h HeatCircle) Layer() mapview.Layer {
	return mapview.NewCircle(h.Center, h.Radius, mapview.PathOptions{
		Fill:        true,
		FillColor:   ColorHeat,
		FillOpacity: h.Intensity,
	})
}

type SpeedClass int

const (
	Slow SpeedClass = iota
	Medium
	Fast
)

func (s SpeedClass) String() string {
	switch s {
	case Slow:
		return "slow"
	case Medium:
		return "medium"
	case Fast:
		return "fast"
	}
	return "unknown"
}

func (s SpeedClass) Color() color.RGBA {
	switch s {
	case Slow:
		return ColorSlow
	case Medium:
		return ColorMedium
	case Fast:
		return ColorFast
	}
	return ColorWhite
}

// SpeedSegment is a road stretch colored by its speed class.
type SpeedSegment struct {
	Path  []mapview.LatLng
	Speed SpeedClass
}

func (SpeedSegment) geometry() {}

func (s SpeedSegment) Layer() mapview.Layer {
	return mapview.NewPolyline(s.Path, mapview.PathOptions{
		Stroke:  true,
		Color:   s.Speed.Color(),
		Weight:  SpeedLineWeight,
		Opacity: SpeedLineOpacity,
	})
}

// CountMarker is a labeled badge with a vehicle count.
type CountMarker struct {
	Position mapview.LatLng
	Count    int
}

func (CountMarker) geometry() {}

func (c CountMarker) Label() string {
	return strconv.Itoa(max(c.Count, 0))
}

func (c CountMarker) Layer() mapview.Layer {
	return mapview.NewMarker(c.Position, mapview.DivIcon{
		Size:        MarkerSize,
		Fill:        ColorMarker,
		Border:      ColorWhite,
		BorderWidth: MarkerBorder,
		Label:       c.Label(),
		LabelColor:  ColorWhite,
	})
}

// Geometries returns the fixed shape set for mode, or nil for an unknown mode.
func Geometries(mode Mode) []Geometry {
	switch mode {
	case ModeDwell:
		return []Geometry{
			HeatCircle{Center: CBD, Radius: HeatRadiusMeters, Intensity: 0.8},
			HeatCircle{Center: Orchard, Radius: HeatRadiusMeters, Intensity: 0.7},
			HeatCircle{Center: JurongEast, Radius: HeatRadiusMeters, Intensity: 0.5},
		}
	case ModeSpeed:
		return []Geometry{
			SpeedSegment{Path: []mapview.LatLng{CBD, Orchard}, Speed: Slow},
			SpeedSegment{Path: []mapview.LatLng{CBD, JurongEast}, Speed: Medium},
			SpeedSegment{Path: []mapview.LatLng{CBD, Changi}, Speed: Fast},
		}
	case ModeCount:
		return []Geometry{
			CountMarker{Position: CBD, Count: 120},
			CountMarker{Position: Orchard, Count: 85},
			CountMarker{Position: JurongEast, Count: 65},
			CountMarker{Position: Changi, Count: 40},
			CountMarker{Position: BuonaVista, Count: 30},
		}
	}
	return nil
}
