package overlay

import (
	"fmt"
	"image/color"
	"math"

	geojson "github.com/paulmach/go.geojson"
	"github.com/sudorandom/hiway/pkg/mapview"
)

// FeatureCollection describes what the map shows in mode: the boundary
// followed by the mode's geometry, with styling carried as properties.
func FeatureCollection(mode Mode) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	ring := Boundary()
	outer := make([][]float64, 0, len(ring)+1)
	for _, ll := range ring {
		outer = append(outer, position(ll))
	}
	outer = append(outer, position(ring[0]))
	boundary := geojson.NewPolygonFeature([][][]float64{outer})
	boundary.SetProperty("kind", "boundary")
	boundary.SetProperty("stroke", hex(ColorBoundary))
	boundary.SetProperty("fill-opacity", BoundaryStyle.FillOpacity)
	fc.AddFeature(boundary)

	for _, g := range Geometries(mode) {
		fc.AddFeature(feature(g))
	}
	return fc
}

// ExportGeoJSON encodes FeatureCollection(mode).
func ExportGeoJSON(mode Mode) ([]byte, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("cannot export %s", mode)
	}
	data, err := FeatureCollection(mode).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s overlay: %w", mode, err)
	}
	return data, nil
}

func feature(g Geometry) *geojson.Feature {
	var f *geojson.Feature
	switch g := g.(type) {
	case HeatCircle:
		f = geojson.NewPointFeature(position(g.Center))
		f.SetProperty("kind", "heat")
		f.SetProperty("radius", g.Radius)
		f.SetProperty("intensity", g.Intensity)
		f.SetProperty("fill", hex(ColorHeat))
	case SpeedSegment:
		line := make([][]float64, 0, len(g.Path))
		var length float64
		for i, ll := range g.Path {
			line = append(line, position(ll))
			if i > 0 {
				length += g.Path[i-1].DistanceTo(ll)
			}
		}
		f = geojson.NewLineStringFeature(line)
		f.SetProperty("kind", "speed")
		f.SetProperty("length_m", math.Round(length))
		f.SetProperty("speed", g.Speed.String())
		f.SetProperty("stroke", hex(g.Speed.Color()))
		f.SetProperty("stroke-width", SpeedLineWeight)
	case CountMarker:
		f = geojson.NewPointFeature(position(g.Position))
		f.SetProperty("kind", "count")
		f.SetProperty("count", g.Count)
	}
	return f
}

func position(ll mapview.LatLng) []float64 {
	return []float64{ll.Lng, ll.Lat}
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
