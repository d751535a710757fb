package traffic

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseCongestionLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    CongestionLevel
		wantErr bool
	}{
		{"LOW", Low, false},
		{"medium", Medium, false},
		{" High ", High, false},
		{"SEVERE", Low, true},
		{"", Low, true},
	}
	for _, tt := range tests {
		got, err := ParseCongestionLevel(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseCongestionLevel(%q) = (%v, %v), want (%v, err=%v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestCongestionLevelString(t *testing.T) {
	if High.String() != "HIGH" || Low.String() != "LOW" {
		t.Errorf("Unexpected level names %s/%s", High, Low)
	}
	if s := CongestionLevel(7).String(); s != "CongestionLevel(7)" {
		t.Errorf("Unexpected name for out-of-range level: %s", s)
	}
	if CongestionLevel(7).Valid() || !Medium.Valid() {
		t.Error("Valid() disagrees with the closed set")
	}
}

func TestCongestionLevelYAML(t *testing.T) {
	var c Congestion
	if err := yaml.Unmarshal([]byte("level: HIGH\npredictionMinutes: 10\n"), &c); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if c.Level != High || c.PredictionMinutes != 10 {
		t.Errorf("Unexpected congestion %+v", c)
	}

	// Unknown values degrade to Low rather than failing.
	if err := yaml.Unmarshal([]byte("level: GRIDLOCK\n"), &c); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if c.Level != Low {
		t.Errorf("Expected fallback to LOW, got %s", c.Level)
	}

	out, err := yaml.Marshal(Congestion{Level: Medium, PredictionMinutes: 5})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != "level: MEDIUM\npredictionMinutes: 5\n" {
		t.Errorf("Unexpected YAML %q", out)
	}
}

func TestAnomalyText(t *testing.T) {
	tests := []struct {
		a    Anomaly
		want string
	}{
		{Anomaly{Type: AnomalySpeeding, Value: "80 km/h"}, "Car detected speeding at 80 km/h"},
		{Anomaly{Type: AnomalyDwelling, Value: "60s"}, "Car detected with dwelling time of 60s"},
		{Anomaly{Type: AnomalyLessVehicles, Count: 3}, "Lesser vehicle count of 3 vehicles"},
		{Anomaly{Type: "wrongWay", Value: "x"}, ""},
	}
	for _, tt := range tests {
		if got := tt.a.Text(); got != tt.want {
			t.Errorf("Text(%+v) = %q, want %q", tt.a, got, tt.want)
		}
	}
}

func TestCaptions(t *testing.T) {
	c := Congestion{Level: High, PredictionMinutes: 10}
	if c.Caption() != "HIGH Congestion" {
		t.Errorf("Unexpected caption %q", c.Caption())
	}
	if c.Prediction() != "Congestion prediction for the next 10 Minutes" {
		t.Errorf("Unexpected prediction %q", c.Prediction())
	}
	if s := (Statistics{VehicleCount: 5}).Caption(); s != "5 cars" {
		t.Errorf("Unexpected statistics caption %q", s)
	}
	if f := (Camera{Direction: "North"}).Facing(); f != "Facing North" {
		t.Errorf("Unexpected camera caption %q", f)
	}
}

func TestRegion(t *testing.T) {
	tests := []struct {
		s    Snapshot
		want string
	}{
		{Snapshot{Location: "Bukit Batok Central", CountryCode: "SG"}, "Bukit Batok Central, Singapore"},
		{Snapshot{Location: "Bukit Batok Central"}, "Bukit Batok Central"},
		{Snapshot{CountryCode: "SG"}, "Singapore"},
		{Snapshot{Location: "Somewhere", CountryCode: "??"}, "Somewhere, ??"},
	}
	for _, tt := range tests {
		if got := tt.s.Region(); got != tt.want {
			t.Errorf("Region(%+v) = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestUnknownLevelIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	var l CongestionLevel
	if err := l.UnmarshalText([]byte("GRIDLOCK")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if l != Low {
		t.Errorf("Expected Low, got %s", l)
	}
	out := buf.String()
	if !strings.Contains(out, "[SNAPSHOT] ") || !strings.Contains(out, "GRIDLOCK") {
		t.Errorf("Expected a tagged warning, got %q", out)
	}

	buf.Reset()
	if err := l.UnmarshalText([]byte("HIGH")); err != nil || l != High {
		t.Errorf("Expected High, got %s (%v)", l, err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no warning for a known level, got %q", buf.String())
	}
}
