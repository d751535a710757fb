package overlay

import (
	"encoding/json"
	"testing"
)

func TestFeatureCollection(t *testing.T) {
	tests := []struct {
		mode Mode
		kind string
		want int
	}{
		{ModeDwell, "heat", 3},
		{ModeSpeed, "speed", 3},
		{ModeCount, "count", 5},
	}
	for _, tt := range tests {
		fc := FeatureCollection(tt.mode)
		if len(fc.Features) != tt.want+1 {
			t.Fatalf("%s: expected %d features, got %d", tt.mode, tt.want+1, len(fc.Features))
		}
		boundary := fc.Features[0]
		if !boundary.Geometry.IsPolygon() {
			t.Fatalf("%s: expected the boundary polygon first", tt.mode)
		}
		ring := boundary.Geometry.Polygon[0]
		if len(ring) != 5 || ring[0][0] != ring[4][0] || ring[0][1] != ring[4][1] {
			t.Errorf("%s: boundary ring is not closed: %v", tt.mode, ring)
		}
		for _, f := range fc.Features[1:] {
			if kind, _ := f.PropertyString("kind"); kind != tt.kind {
				t.Errorf("%s: expected kind %s, got %s", tt.mode, tt.kind, kind)
			}
		}
	}

	if got := len(FeatureCollection(Mode(5)).Features); got != 1 {
		t.Errorf("Expected only the boundary for an unknown mode, got %d features", got)
	}
}

func TestExportGeoJSON(t *testing.T) {
	data, err := ExportGeoJSON(ModeSpeed)
	if err != nil {
		t.Fatalf("ExportGeoJSON failed: %v", err)
	}
	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Export is not valid JSON: %v", err)
	}
	if doc.Type != "FeatureCollection" || len(doc.Features) != 4 {
		t.Fatalf("Unexpected document: %s with %d features", doc.Type, len(doc.Features))
	}
	slow := doc.Features[1]
	if slow.Geometry.Type != "LineString" || slow.Properties["stroke"] != "#ef4444" || slow.Properties["speed"] != "slow" {
		t.Errorf("Unexpected slow segment %+v", slow)
	}
	// CBD to Orchard is roughly 3.6 km.
	if length, _ := slow.Properties["length_m"].(float64); length < 3400 || length > 3800 {
		t.Errorf("Expected a segment length near 3600 m, got %v", slow.Properties["length_m"])
	}

	if _, err := ExportGeoJSON(Mode(-2)); err == nil {
		t.Error("Expected an error exporting an unknown mode")
	}
}
