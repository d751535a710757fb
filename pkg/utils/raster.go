package utils

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Point is a position in surface pixels.
type Point struct {
	X, Y float64
}

// Segment quads and circles share one winding so that shapes in the same
// rasterizer pass saturate instead of cancelling.

// Clear resets every pixel of dst to transparent.
func Clear(dst draw.Image) {
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Fill paints the whole surface with c.
func Fill(dst draw.Image, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// WithAlpha turns an opaque palette colour into a straight-alpha colour.
func WithAlpha(c color.RGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(alpha * float64(c.A)))}
}

func newRasterizer(dst draw.Image) *vector.Rasterizer {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	return z
}

func flush(dst draw.Image, z *vector.Rasterizer, c color.Color) {
	b := dst.Bounds()
	z.Draw(dst, b, image.NewUniform(c), b.Min)
}

func addPath(z *vector.Rasterizer, pts []Point, origin image.Point) {
	if len(pts) < 3 {
		return
	}
	ox, oy := float64(origin.X), float64(origin.Y)
	z.MoveTo(float32(pts[0].X-ox), float32(pts[0].Y-oy))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	z.ClosePath()
}

// FillPolygon fills a closed ring.
func FillPolygon(dst draw.Image, ring []Point, c color.Color) {
	if len(ring) < 3 {
		return
	}
	z := newRasterizer(dst)
	addPath(z, ring, dst.Bounds().Min)
	flush(dst, z, c)
}

// StrokePolyline draws a line of the given width through pts, with round joins and caps.
func StrokePolyline(dst draw.Image, pts []Point, width float64, c color.Color) {
	if len(pts) < 2 || width <= 0 {
		return
	}
	z := newRasterizer(dst)
	origin := dst.Bounds().Min
	hw := width / 2
	for i := 0; i < len(pts)-1; i++ {
		addPath(z, segmentQuad(pts[i], pts[i+1], hw), origin)
	}
	if width > 2 {
		for _, p := range pts {
			addPath(z, CirclePoints(p, hw), origin)
		}
	}
	flush(dst, z, c)
}

// StrokeRing draws a closed outline through ring.
func StrokeRing(dst draw.Image, ring []Point, width float64, c color.Color) {
	if len(ring) < 2 {
		return
	}
	closed := append(append([]Point(nil), ring...), ring[0])
	StrokePolyline(dst, closed, width, c)
}

func segmentQuad(a, b Point, hw float64) []Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return nil
	}
	nx, ny := -dy/l*hw, dx/l*hw
	return []Point{
		{a.X + nx, a.Y + ny},
		{b.X + nx, b.Y + ny},
		{b.X - nx, b.Y - ny},
		{a.X - nx, a.Y - ny},
	}
}

// CirclePoints approximates a circle of radius r around c.
func CirclePoints(c Point, r float64) []Point {
	n := circleSegments(r)
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		a := -2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point{c.X + r*math.Cos(a), c.Y + r*math.Sin(a)}
	}
	return pts
}

func circleSegments(r float64) int {
	n := int(math.Ceil(r * 1.5))
	if n < 16 {
		n = 16
	}
	if n > 256 {
		n = 256
	}
	return n
}

// FillCircle fills a disc of radius r around c.
func FillCircle(dst draw.Image, c Point, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	FillPolygon(dst, CirclePoints(c, r), col)
}

// ArcBand returns the outline of the ring sector between radii inner and outer,
// swept clockwise on screen from start to end (radians, canvas convention).
func ArcBand(c Point, inner, outer, start, end float64) []Point {
	n := circleSegments(outer) * int(math.Ceil(math.Abs(end-start)/(2*math.Pi)*4+1)) / 4
	if n < 8 {
		n = 8
	}
	pts := make([]Point, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		a := start + (end-start)*float64(i)/float64(n)
		pts = append(pts, Point{c.X + outer*math.Cos(a), c.Y + outer*math.Sin(a)})
	}
	for i := n; i >= 0; i-- {
		a := start + (end-start)*float64(i)/float64(n)
		pts = append(pts, Point{c.X + inner*math.Cos(a), c.Y + inner*math.Sin(a)})
	}
	return pts
}

// StrokeArc strokes a circular arc like a canvas arc() with butt caps.
func StrokeArc(dst draw.Image, c Point, radius, width, start, end float64, col color.Color) {
	hw := width / 2
	FillPolygon(dst, ArcBand(c, radius-hw, radius+hw, start, end), col)
}

// FillRing fills the band between inner and outer radius around c.
func FillRing(dst draw.Image, c Point, inner, outer float64, col color.Color) {
	if outer <= inner {
		return
	}
	FillPolygon(dst, ArcBand(c, inner, outer, 0, 2*math.Pi), col)
}

// FillRect paints r with c, blending over the existing pixels.
func FillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// TextWidth reports the advance of s in the built-in label face.
func TextWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// DrawText writes s with its top-left corner at (x, y).
func DrawText(dst draw.Image, s string, x, y int, c color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(s)
}

// DrawTextCentered writes s centered on (cx, cy).
func DrawTextCentered(dst draw.Image, s string, cx, cy int, c color.Color) {
	face := basicfont.Face7x13
	w := TextWidth(s)
	DrawText(dst, s, cx-w/2, cy-(face.Ascent+face.Descent)/2, c)
}

// FillPill fills r with fully rounded short ends as a single shape, so a
// translucent colour is applied once.
func FillPill(dst draw.Image, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	rad := float64(min(r.Dx(), r.Dy())) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	left := Point{float64(r.Min.X) + rad, cy}
	right := Point{float64(r.Max.X) - rad, cy}
	n := max(circleSegments(rad)/2, 8)
	pts := make([]Point, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		a := -math.Pi/2 + math.Pi*float64(i)/float64(n)
		pts = append(pts, Point{right.X + rad*math.Cos(a), right.Y + rad*math.Sin(a)})
	}
	for i := 0; i <= n; i++ {
		a := math.Pi/2 + math.Pi*float64(i)/float64(n)
		pts = append(pts, Point{left.X + rad*math.Cos(a), left.Y + rad*math.Sin(a)})
	}
	FillPolygon(dst, pts, c)
}
