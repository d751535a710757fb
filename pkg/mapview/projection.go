// Package mapview is a small slippy-map engine: a view over spherical Web Mercator,
// an ordered layer stack rasterized into an image.RGBA, and layer/view events.
package mapview

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	TileSize = 256

	EarthRadiusMeters = 6378137.0
	maxLatitude       = 85.0511287798
)

// LatLng is a geographic position in degrees.
type LatLng struct {
	Lat, Lng float64
}

// Valid reports whether the point lies within plausible map bounds.
func (p LatLng) Valid() bool {
	if math.Abs(p.Lat) > maxLatitude {
		return false
	}
	return s2.LatLngFromDegrees(p.Lat, p.Lng).IsValid()
}

// DistanceTo returns the great-circle distance in meters.
func (p LatLng) DistanceTo(o LatLng) float64 {
	a := s2.LatLngFromDegrees(p.Lat, p.Lng)
	b := s2.LatLngFromDegrees(o.Lat, o.Lng)
	return a.Distance(b).Radians() * EarthRadiusMeters
}

// North returns the point the given number of meters due north.
func (p LatLng) North(meters float64) LatLng {
	d := s1.Angle(meters / EarthRadiusMeters)
	return LatLng{Lat: p.Lat + d.Degrees(), Lng: p.Lng}
}

// Projection maps geographic coordinates to container pixels for one view.
type Projection struct {
	Center        LatLng
	Zoom          int
	Width, Height int
}

func (p Projection) worldSize() float64 {
	return TileSize * math.Exp2(float64(p.Zoom))
}

func (p Projection) world(ll LatLng) (x, y float64) {
	lat := ll.Lat
	if lat > maxLatitude {
		lat = maxLatitude
	}
	if lat < -maxLatitude {
		lat = -maxLatitude
	}
	size := p.worldSize()
	s := math.Sin(lat * math.Pi / 180)
	x = (ll.Lng + 180) / 360 * size
	y = (0.5 - math.Log((1+s)/(1-s))/(4*math.Pi)) * size
	return x, y
}

// Origin is the world pixel at the top-left corner of the container.
func (p Projection) Origin() (x, y float64) {
	cx, cy := p.world(p.Center)
	return cx - float64(p.Width)/2, cy - float64(p.Height)/2
}

func (p Projection) Project(ll LatLng) (x, y float64) {
	wx, wy := p.world(ll)
	ox, oy := p.Origin()
	return wx - ox, wy - oy
}

func (p Projection) Unproject(x, y float64) LatLng {
	ox, oy := p.Origin()
	size := p.worldSize()
	wx, wy := (x+ox)/size, (y+oy)/size
	lng := wx*360 - 180
	n := math.Pi - 2*math.Pi*wy
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	return LatLng{Lat: lat, Lng: lng}
}

// RadiusPixels converts a ground radius around center into container pixels.
func (p Projection) RadiusPixels(center LatLng, meters float64) float64 {
	_, y1 := p.Project(center)
	_, y2 := p.Project(center.North(meters))
	return math.Abs(y1 - y2)
}
