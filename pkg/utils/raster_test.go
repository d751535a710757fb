package utils

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestArcBandEndpoints(t *testing.T) {
	c := Point{100, 100}
	pts := ArcBand(c, 60, 80, math.Pi, 2*math.Pi)
	if len(pts)%2 != 0 {
		t.Fatalf("Expected an even number of points, got %d", len(pts))
	}
	first, last := pts[0], pts[len(pts)-1]
	if math.Abs(first.X-20) > 1e-9 || math.Abs(first.Y-100) > 1e-9 {
		t.Errorf("Expected outer start at (20, 100), got %+v", first)
	}
	if math.Abs(last.X-40) > 1e-9 || math.Abs(last.Y-100) > 1e-9 {
		t.Errorf("Expected inner start at (40, 100), got %+v", last)
	}
	mid := pts[len(pts)/2-1]
	if math.Abs(mid.X-180) > 1e-9 {
		t.Errorf("Expected outer end at x=180, got %+v", mid)
	}
}

func TestCirclePointsRadius(t *testing.T) {
	for _, r := range []float64{1, 8, 24, 500} {
		pts := CirclePoints(Point{5, 5}, r)
		if len(pts) < 16 || len(pts) > 256 {
			t.Errorf("Unexpected segment count %d for r=%v", len(pts), r)
		}
		for _, p := range pts {
			if d := math.Hypot(p.X-5, p.Y-5); math.Abs(d-r) > 1e-9 {
				t.Fatalf("Point %+v is %v from center, want %v", p, d, r)
			}
		}
	}
}

func TestWithAlpha(t *testing.T) {
	tests := []struct {
		alpha float64
		want  uint8
	}{
		{0, 0},
		{0.2, 51},
		{0.5, 128},
		{1, 255},
		{2, 255},
		{-1, 0},
	}
	for _, tt := range tests {
		got := WithAlpha(color.RGBA{58, 58, 159, 255}, tt.alpha)
		if got.A != tt.want || got.R != 58 || got.B != 159 {
			t.Errorf("WithAlpha(%v) = %+v, want alpha %d", tt.alpha, got, tt.want)
		}
	}
}

func TestFillPill(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 40))
	FillPill(dst, image.Rect(0, 0, 100, 40), color.RGBA{58, 58, 159, 255})
	if got := dst.RGBAAt(50, 20); got.A != 255 {
		t.Errorf("Expected the middle to be opaque, got %v", got)
	}
	if got := dst.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("Expected the rounded corner to stay clear, got %v", got)
	}

	// A translucent fill is applied once even where the ends meet the body.
	dst = image.NewRGBA(image.Rect(0, 0, 100, 40))
	FillPill(dst, image.Rect(0, 0, 100, 40), WithAlpha(color.RGBA{255, 255, 255, 255}, 0.5))
	a, b := dst.RGBAAt(20, 20).A, dst.RGBAAt(50, 20).A
	if a != b {
		t.Errorf("Expected uniform alpha, got %d at the end and %d in the middle", a, b)
	}

	FillPill(dst, image.Rectangle{}, color.White)
}
