// Package traffic holds the display snapshot the dashboard renders.
package traffic

import (
	"fmt"
	"log"
	"strings"

	"github.com/biter777/countries"
)

// CongestionLevel is a three-valued severity indicator for traffic density.
type CongestionLevel int

const (
	Low CongestionLevel = iota
	Medium
	High
)

var Levels = []CongestionLevel{Low, Medium, High}

func (l CongestionLevel) Valid() bool {
	return l >= Low && l <= High
}

func (l CongestionLevel) String() string {
	switch l {
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	}
	return fmt.Sprintf("CongestionLevel(%d)", int(l))
}

func ParseCongestionLevel(s string) (CongestionLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return Low, nil
	case "MEDIUM":
		return Medium, nil
	case "HIGH":
		return High, nil
	}
	return Low, fmt.Errorf("unknown congestion level %q", s)
}

// UnmarshalText degrades unknown levels to Low instead of failing the whole snapshot.
func (l *CongestionLevel) UnmarshalText(b []byte) error {
	level, err := ParseCongestionLevel(string(b))
	if err != nil {
		log.Printf("[SNAPSHOT] %v, using %s", err, Low)
	}
	*l = level
	return nil
}

func (l CongestionLevel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", l)
	}
	return []byte(l.String()), nil
}

type AnomalyType string

const (
	AnomalySpeeding     AnomalyType = "speeding"
	AnomalyDwelling     AnomalyType = "dwelling"
	AnomalyLessVehicles AnomalyType = "lessVehicles"
)

// Anomaly carries either a measured Value (speeding, dwelling) or a Count.
type Anomaly struct {
	Type  AnomalyType `yaml:"type"`
	Value string      `yaml:"value,omitempty"`
	Count int         `yaml:"count,omitempty"`
}

// Text is the sentence shown in the anomalies card; unknown types render empty.
func (a Anomaly) Text() string {
	switch a.Type {
	case AnomalySpeeding:
		return "Car detected speeding at " + a.Value
	case AnomalyDwelling:
		return "Car detected with dwelling time of " + a.Value
	case AnomalyLessVehicles:
		return fmt.Sprintf("Lesser vehicle count of %d vehicles", a.Count)
	}
	return ""
}

type Congestion struct {
	Level             CongestionLevel `yaml:"level"`
	PredictionMinutes int             `yaml:"predictionMinutes"`
}

func (c Congestion) Caption() string {
	return c.Level.String() + " Congestion"
}

func (c Congestion) Prediction() string {
	return fmt.Sprintf("Congestion prediction for the next %d Minutes", c.PredictionMinutes)
}

type Statistics struct {
	VehicleCount int `yaml:"vehicleCount"`
}

func (s Statistics) Caption() string {
	return fmt.Sprintf("%d cars", s.VehicleCount)
}

type Camera struct {
	Location  string `yaml:"location"`
	Direction string `yaml:"direction"`
	Time      string `yaml:"time"`
}

func (c Camera) Facing() string {
	return "Facing " + c.Direction
}

// Snapshot is one immutable frame of dashboard data.
type Snapshot struct {
	Title       string     `yaml:"title"`
	Location    string     `yaml:"location"`
	CountryCode string     `yaml:"countryCode"`
	Congestion  Congestion `yaml:"congestion"`
	Anomalies   []Anomaly  `yaml:"anomalies"`
	Statistics  Statistics `yaml:"statistics"`
	Camera      Camera     `yaml:"camera"`
}

// Region is the header subtitle: the location followed by the country name when known.
func (s Snapshot) Region() string {
	name := CountryName(s.CountryCode)
	switch {
	case name == "":
		return s.Location
	case s.Location == "":
		return name
	}
	return s.Location + ", " + name
}

// CountryName resolves an ISO code or name to a short display name.
func CountryName(code string) string {
	if code == "" {
		return ""
	}
	name := countries.ByName(code).String()
	if name == "Unknown" {
		return code
	}
	if idx := strings.Index(name, " ("); idx != -1 {
		name = name[:idx]
	}
	return name
}
