// Package overlay owns the dashboard map: the overlay mode, the fixed geometry
// drawn for each mode and the tab control that switches between them.
package overlay

import (
	"fmt"
	"strings"
)

// Mode selects which traffic overlay is drawn over the base map.
type Mode int

const (
	ModeDwell Mode = iota
	ModeSpeed
	ModeCount
)

var Modes = []Mode{ModeDwell, ModeSpeed, ModeCount}

func (m Mode) Valid() bool {
	return m >= ModeDwell && m <= ModeCount
}

func (m Mode) String() string {
	switch m {
	case ModeDwell:
		return "dwell"
	case ModeSpeed:
		return "speed"
	case ModeCount:
		return "count"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Label is the tab caption.
func (m Mode) Label() string {
	switch m {
	case ModeDwell:
		return "Dwell"
	case ModeSpeed:
		return "Speed"
	case ModeCount:
		return "Count"
	}
	return m.String()
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dwell":
		return ModeDwell, nil
	case "speed":
		return ModeSpeed, nil
	case "count":
		return ModeCount, nil
	}
	return ModeDwell, fmt.Errorf("unknown overlay mode %q", s)
}

func (m *Mode) UnmarshalText(b []byte) error {
	mode, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", m)
	}
	return []byte(m.String()), nil
}
