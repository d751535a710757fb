package sources

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sudorandom/hiway/pkg/traffic"
)

func TestStatic(t *testing.T) {
	s := Static()
	if s.Location != "Bukit Batok Central" {
		t.Errorf("Expected Bukit Batok Central, got %s", s.Location)
	}
	if s.Congestion.Level != traffic.High {
		t.Errorf("Expected HIGH, got %s", s.Congestion.Level)
	}
	if len(s.Anomalies) != 3 {
		t.Fatalf("Expected 3 anomalies, got %d", len(s.Anomalies))
	}
	if s.Anomalies[2].Text() != "Lesser vehicle count of 3 vehicles" {
		t.Errorf("Unexpected anomaly text %q", s.Anomalies[2].Text())
	}

	// Each call returns an independent copy.
	s.Anomalies[0].Value = "1 km/h"
	if Static().Anomalies[0].Value != "80 km/h" {
		t.Error("Static snapshot was mutated through a returned copy")
	}
}

func TestParseSnapshotOverlaysDefaults(t *testing.T) {
	s, err := ParseSnapshot([]byte("location: Jurong East\ncongestion:\n  level: MEDIUM\n"))
	if err != nil {
		t.Fatalf("ParseSnapshot failed: %v", err)
	}
	if s.Location != "Jurong East" {
		t.Errorf("Expected Jurong East, got %s", s.Location)
	}
	if s.Congestion.Level != traffic.Medium {
		t.Errorf("Expected MEDIUM, got %s", s.Congestion.Level)
	}
	if s.Congestion.PredictionMinutes != 10 {
		t.Errorf("Expected default prediction of 10, got %d", s.Congestion.PredictionMinutes)
	}
	if s.Statistics.VehicleCount != 5 {
		t.Errorf("Expected default vehicle count of 5, got %d", s.Statistics.VehicleCount)
	}

	if _, err := ParseSnapshot([]byte("congestion: [")); err == nil {
		t.Error("Expected an error for malformed YAML")
	}
}

func TestFileSourceRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "snapshot-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "snapshot.yaml")
	want := Static()
	want.Congestion.Level = traffic.Low
	want.Statistics.VehicleCount = 42
	if err := WriteSnapshot(path, want); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	got, err := src.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if got.Congestion.Level != traffic.Low || got.Statistics.VehicleCount != 42 {
		t.Errorf("Unexpected snapshot %+v", got)
	}
	if len(got.Anomalies) != 3 || got.Anomalies[1].Value != "60s" {
		t.Errorf("Anomalies did not survive the round trip: %+v", got.Anomalies)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Snapshot(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	src, err := Open("")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, ok := src.(StaticSource); !ok {
		t.Errorf("Expected StaticSource, got %T", src)
	}

	if _, err := Open(filepath.Join(os.TempDir(), "does-not-exist.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}
