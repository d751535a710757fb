package overlay

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"sync"

	geojson "github.com/paulmach/go.geojson"
	"github.com/sudorandom/hiway/pkg/mapview"
)

//go:embed data/boundary.geo.json
var boundaryGeoJSON []byte

var ColorBoundary = color.RGBA{0x3a, 0x3a, 0x9f, 0xff}

var BoundaryStyle = mapview.PathOptions{
	Stroke:      true,
	Color:       ColorBoundary,
	Weight:      2,
	Opacity:     1,
	Fill:        true,
	FillColor:   ColorBoundary,
	FillOpacity: 0.1,
}

var loadBoundary = sync.OnceValues(func() ([]mapview.LatLng, error) {
	return parseBoundary(boundaryGeoJSON)
})

// Boundary returns the outer ring of the monitored region.
func Boundary() []mapview.LatLng {
	ring, err := loadBoundary()
	if err != nil {
		panic(fmt.Sprintf("embedded boundary is invalid: %v", err))
	}
	return append([]mapview.LatLng(nil), ring...)
}

func parseBoundary(data []byte) ([]mapview.LatLng, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	for _, f := range fc.Features {
		if f.Geometry == nil || !f.Geometry.IsPolygon() || len(f.Geometry.Polygon) == 0 {
			continue
		}
		outer := f.Geometry.Polygon[0]
		ring := make([]mapview.LatLng, 0, len(outer))
		for _, c := range outer {
			if len(c) < 2 {
				return nil, fmt.Errorf("short coordinate %v", c)
			}
			// GeoJSON positions are [lng, lat].
			ring = append(ring, mapview.LatLng{Lat: c[1], Lng: c[0]})
		}
		if n := len(ring); n > 1 && ring[0] == ring[n-1] {
			ring = ring[:n-1]
		}
		if len(ring) < 3 {
			return nil, fmt.Errorf("boundary has %d vertices", len(ring))
		}
		return ring, nil
	}
	return nil, errors.New("no polygon feature")
}

func boundaryLayer() *mapview.Polygon {
	return mapview.NewPolygon(Boundary(), BoundaryStyle)
}
