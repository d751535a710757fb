package trafficengine

import "image"

// Layout is the pixel placement of every dashboard region for one window size.
type Layout struct {
	Scale float64

	Header     image.Rectangle
	Congestion image.Rectangle
	Anomalies  image.Rectangle
	Statistics image.Rectangle
	Map        image.Rectangle
	Camera     image.Rectangle

	// MapView is the map surface inside the Map card.
	MapView image.Rectangle
}

const (
	baseMargin    = 24
	baseGap       = 16
	baseHeaderH   = 56
	baseTopRowH   = 300
	baseCardPad   = 16
	baseCardTitle = 32
)

// ComputeLayout arranges a header, a row of three cards and a row with the
// map beside the camera panel. Sizes double on 4K-class canvases.
func ComputeLayout(width, height int) Layout {
	scale := 1.0
	if width > 2000 {
		scale = 2.0
	}
	px := func(v int) int { return int(float64(v) * scale) }
	margin, gap := px(baseMargin), px(baseGap)

	l := Layout{Scale: scale}
	inner := image.Rect(margin, margin, max(width-margin, margin), max(height-margin, margin))
	l.Header = image.Rect(inner.Min.X, inner.Min.Y, inner.Max.X, min(inner.Min.Y+px(baseHeaderH), inner.Max.Y))

	topY := min(l.Header.Max.Y+gap, inner.Max.Y)
	topH := min(px(baseTopRowH), inner.Max.Y-topY)
	cols := splitColumns(inner.Min.X, inner.Max.X, 3, gap)
	l.Congestion = image.Rect(cols[0][0], topY, cols[0][1], topY+topH)
	l.Anomalies = image.Rect(cols[1][0], topY, cols[1][1], topY+topH)
	l.Statistics = image.Rect(cols[2][0], topY, cols[2][1], topY+topH)

	bottomY := min(topY+topH+gap, inner.Max.Y)
	halves := splitColumns(inner.Min.X, inner.Max.X, 2, gap)
	l.Map = image.Rect(halves[0][0], bottomY, halves[0][1], inner.Max.Y)
	l.Camera = image.Rect(halves[1][0], bottomY, halves[1][1], inner.Max.Y)

	pad := px(baseCardPad)
	// Built literally: image.Rect would swap inverted corners into a non-empty rectangle.
	l.MapView = image.Rectangle{
		Min: image.Pt(l.Map.Min.X+pad, l.Map.Min.Y+px(baseCardTitle)+pad),
		Max: image.Pt(l.Map.Max.X-pad, l.Map.Max.Y-pad),
	}
	if l.MapView.Empty() {
		l.MapView = image.Rectangle{}
	}
	return l
}

// splitColumns divides [x0, x1) into n equal columns separated by gap.
func splitColumns(x0, x1, n, gap int) [][2]int {
	w := max((x1-x0-gap*(n-1))/n, 0)
	out := make([][2]int, n)
	for i := range out {
		left := x0 + i*(w+gap)
		out[i] = [2]int{left, left + w}
	}
	return out
}
