package sources

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sudorandom/hiway/pkg/traffic"
	"gopkg.in/yaml.v3"
)

// Source yields the snapshot the dashboard should display.
type Source interface {
	Snapshot(ctx context.Context) (traffic.Snapshot, error)
}

// Static returns the built-in demo snapshot.
func Static() traffic.Snapshot {
	return traffic.Snapshot{
		Title:       "HiWay",
		Location:    "Bukit Batok Central",
		CountryCode: "SG",
		Congestion: traffic.Congestion{
			Level:             traffic.High,
			PredictionMinutes: 10,
		},
		Anomalies: []traffic.Anomaly{
			{Type: traffic.AnomalySpeeding, Value: "80 km/h"},
			{Type: traffic.AnomalyDwelling, Value: "60s"},
			{Type: traffic.AnomalyLessVehicles, Count: 3},
		},
		Statistics: traffic.Statistics{VehicleCount: 5},
		Camera: traffic.Camera{
			Location:  "Bukit Batok Central",
			Direction: "North",
			Time:      "10:45",
		},
	}
}

type StaticSource struct{}

func (StaticSource) Snapshot(context.Context) (traffic.Snapshot, error) {
	return Static(), nil
}

// FileSource reads a YAML snapshot on every call, so edits show up on the next refresh.
type FileSource struct {
	Path string
}

func (f FileSource) Snapshot(ctx context.Context) (traffic.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return traffic.Snapshot{}, err
	}
	return LoadSnapshot(f.Path)
}

// LoadSnapshot decodes a YAML file over the built-in defaults. Fields missing
// from the file keep their default values.
func LoadSnapshot(path string) (traffic.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return traffic.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

func ParseSnapshot(data []byte) (traffic.Snapshot, error) {
	s := Static()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return traffic.Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return s, nil
}

// WriteSnapshot stores s as YAML at path.
func WriteSnapshot(path string, s traffic.Snapshot) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Open picks a FileSource when path is set and the built-in snapshot otherwise.
func Open(path string) (Source, error) {
	if path == "" {
		return StaticSource{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("snapshot %s does not exist: %w", path, err)
		}
		return nil, err
	}
	return FileSource{Path: path}, nil
}
