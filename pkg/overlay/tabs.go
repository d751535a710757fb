package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/sudorandom/hiway/pkg/utils"
)

const (
	TabWidth  = 72
	TabHeight = 26
	TabGap    = 8
)

var (
	ColorTabActive   = color.RGBA{0x3a, 0x3a, 0x9f, 0xff}
	ColorTabInactive = utils.WithAlpha(ColorTabActive, 0.7)
)

// Tab is one rendered option of the selector.
type Tab struct {
	Mode   Mode
	Label  string
	Rect   image.Rectangle
	Active bool
}

// TabSelector is the stateless Dwell/Speed/Count switch drawn over the map.
// The active mode is always supplied by the caller.
type TabSelector struct {
	Origin   image.Point
	OnSelect func(Mode)
}

// Size is the bounding box of the whole row.
func (s *TabSelector) Size() image.Point {
	n := len(Modes)
	return image.Pt(n*TabWidth+(n-1)*TabGap, TabHeight)
}

func (s *TabSelector) Render(active Mode) []Tab {
	tabs := make([]Tab, 0, len(Modes))
	x := s.Origin.X
	for _, m := range Modes {
		tabs = append(tabs, Tab{
			Mode:   m,
			Label:  m.Label(),
			Rect:   image.Rect(x, s.Origin.Y, x+TabWidth, s.Origin.Y+TabHeight),
			Active: m == active,
		})
		x += TabWidth + TabGap
	}
	return tabs
}

func (s *TabSelector) Draw(dst draw.Image, active Mode) {
	if dst == nil {
		return
	}
	for _, t := range s.Render(active) {
		var bg color.Color = ColorTabInactive
		if t.Active {
			bg = ColorTabActive
		}
		utils.FillPill(dst, t.Rect, bg)
		c := t.Rect.Min.Add(t.Rect.Max).Div(2)
		utils.DrawTextCentered(dst, t.Label, c.X, c.Y, color.White)
	}
}

// Click hit-tests pt and reports the selection of the tab under it, if any.
// Clicking the active tab selects it again.
func (s *TabSelector) Click(pt image.Point, active Mode) bool {
	for _, t := range s.Render(active) {
		if !pt.In(t.Rect) {
			continue
		}
		if s.OnSelect != nil {
			s.OnSelect(t.Mode)
		}
		return true
	}
	return false
}
