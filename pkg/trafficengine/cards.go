package trafficengine

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sudorandom/hiway/pkg/gauge"
	"github.com/sudorandom/hiway/pkg/traffic"
)

var (
	ColorBackground = color.RGBA{0x1a, 0x1b, 0x36, 0xff}
	ColorPrimary    = color.RGBA{0x3a, 0x3a, 0x9f, 0xff}
	ColorSecondary  = color.RGBA{0x8a, 0x93, 0xc0, 0xff}
	ColorBorder     = color.RGBA{0x2a, 0x2b, 0x52, 0xff}
	ColorCamera     = color.RGBA{0x2b, 0x2d, 0x3a, 0xff}
)

func (e *Engine) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: e.fontSource, Size: size * e.layout.Scale}
}

func (e *Engine) measure(face *text.GoTextFace) func(string) float64 {
	return func(s string) float64 {
		w, _ := text.Measure(s, face, 0)
		return w
	}
}

// drawText places s with its top edge at y. align is -1 left of x, 0 centered on x, 1 right of x.
func drawText(screen *ebiten.Image, s string, face *text.GoTextFace, x, y float64, align int, alpha float32) {
	w, _ := text.Measure(s, face, 0)
	switch align {
	case 0:
		x -= w / 2
	case 1:
		x -= w
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.Scale(1, 1, 1, alpha)
	text.Draw(screen, s, face, op)
}

// drawCard paints the card background and its centered title, returning the
// area left for the body.
func (e *Engine) drawCard(screen *ebiten.Image, r image.Rectangle, bg color.Color, title string) image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	x, y, w, h := float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy())
	vector.DrawFilledRect(screen, x, y, w, h, bg, false)
	vector.StrokeRect(screen, x, y, w, h, 1, ColorBorder, false)

	pad := int(baseCardPad * e.layout.Scale)
	body := r.Inset(pad)
	if title == "" || e.fontSource == nil {
		return body
	}
	drawText(screen, title, e.face(20), float64(r.Min.X+r.Dx()/2), float64(body.Min.Y), 0, 1)
	body.Min.Y += int(baseCardTitle * e.layout.Scale)
	return body
}

func (e *Engine) drawHeader(screen *ebiten.Image, s traffic.Snapshot) {
	if e.fontSource == nil || e.layout.Header.Empty() {
		return
	}
	h := e.layout.Header
	title := s.Title
	if title == "" {
		title = "HiWay"
	}
	titleFace, regionFace := e.face(30), e.face(20)
	mid := float64(h.Min.Y + h.Dy()/2)
	drawText(screen, title, titleFace, float64(h.Min.X), mid-titleFace.Size/2, -1, 1)
	drawText(screen, s.Region(), regionFace, float64(h.Max.X), mid-regionFace.Size/2, 1, 1)
}

func (e *Engine) drawCongestionCard(screen *ebiten.Image, c traffic.Congestion) {
	body := e.drawCard(screen, e.layout.Congestion, ColorPrimary, "Congestion Meter")
	if body.Empty() {
		return
	}
	// The gauge's lower half is empty, so the captions overlap it.
	scale := min(e.layout.Scale, float64(body.Dx())/gauge.Size)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(body.Min.X+body.Dx()/2)-gauge.Size*scale/2, float64(body.Min.Y))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(e.gaugeImage, op)

	if e.fontSource == nil {
		return
	}
	cx := float64(body.Min.X + body.Dx()/2)
	y := float64(body.Min.Y) + gauge.Size*scale*0.6
	drawText(screen, c.Caption(), e.face(18), cx, y, 0, 1)

	small := e.face(13)
	line := fitText(c.Prediction(), float64(body.Dx()), e.measure(small))
	drawText(screen, line, small, cx, y+40*e.layout.Scale, 0, 0.9)
}

func (e *Engine) drawAnomaliesCard(screen *ebiten.Image, anomalies []traffic.Anomaly) {
	body := e.drawCard(screen, e.layout.Anomalies, ColorSecondary, "Anomalies")
	if body.Empty() || e.fontSource == nil {
		return
	}
	face := e.face(14)
	rowH := 40 * e.layout.Scale
	gap := 12 * e.layout.Scale
	y := float64(body.Min.Y)
	for _, a := range anomalies {
		if y+rowH > float64(body.Max.Y) {
			break
		}
		row := image.Rect(body.Min.X, int(y), body.Max.X, int(y+rowH))
		drawPill(screen, row, color.NRGBA{0xff, 0xff, 0xff, 0x33})
		pad := rowH / 2
		msg := fitText(a.Text(), float64(row.Dx())-2*pad, e.measure(face))
		drawText(screen, msg, face, float64(row.Min.X+row.Dx()/2), y+(rowH-face.Size)/2, 0, 1)
		y += rowH + gap
	}
}

// drawPill fills r with semicircular ends.
func drawPill(screen *ebiten.Image, r image.Rectangle, c color.NRGBA) {
	rad := float32(r.Dy()) / 2
	x, y, w, h := float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy())
	var path vector.Path
	path.MoveTo(x+rad, y)
	path.LineTo(x+w-rad, y)
	path.Arc(x+w-rad, y+rad, rad, -halfPi, halfPi, vector.Clockwise)
	path.LineTo(x+rad, y+h)
	path.Arc(x+rad, y+rad, rad, halfPi, 3*halfPi, vector.Clockwise)
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	cr, cg, cb, ca := float32(c.R)/0xff, float32(c.G)/0xff, float32(c.B)/0xff, float32(c.A)/0xff
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = cr, cg, cb, ca
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(vs, is, whitePixel, op)
}

const halfPi = math.Pi / 2

var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

func (e *Engine) drawStatisticsCard(screen *ebiten.Image, s traffic.Statistics) {
	body := e.drawCard(screen, e.layout.Statistics, ColorPrimary, "Statistics")
	if body.Empty() || e.fontSource == nil {
		return
	}
	cx := float64(body.Min.X + body.Dx()/2)
	big := e.face(44)
	y := float64(body.Min.Y + body.Dy()/2) - big.Size
	drawText(screen, s.Caption(), big, cx, y, 0, 1)
	drawText(screen, "Vehicle Count", e.face(16), cx, y+big.Size+12*e.layout.Scale, 0, 0.9)
}

func (e *Engine) drawMapCard(screen *ebiten.Image) {
	e.drawCard(screen, e.layout.Map, ColorPrimary, "Traffic Map")
	v := e.layout.MapView
	if v.Empty() || e.mapImage == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(v.Min.X), float64(v.Min.Y))
	screen.DrawImage(e.mapImage, op)
}

func (e *Engine) drawCameraCard(screen *ebiten.Image, c traffic.Camera) {
	r := e.layout.Camera
	if r.Empty() {
		return
	}
	vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), ColorCamera, false)
	if e.fontSource == nil {
		return
	}
	drawText(screen, "No camera feed", e.face(14), float64(r.Min.X+r.Dx()/2), float64(r.Min.Y+r.Dy()/2)-20*e.layout.Scale, 0, 0.4)

	pad := 16 * e.layout.Scale
	barH := 64 * e.layout.Scale
	barY := float64(r.Max.Y) - barH
	vector.DrawFilledRect(screen, float32(r.Min.X), float32(barY), float32(r.Dx()), float32(barH), color.RGBA{0, 0, 0, 128}, false)

	loc, small := e.face(17), e.face(14)
	left, right := float64(r.Min.X)+pad, float64(r.Max.X)-pad
	drawText(screen, c.Location, loc, left, barY+pad/2, -1, 1)
	drawText(screen, c.Facing(), small, left, barY+pad/2+loc.Size+6*e.layout.Scale, -1, 1)
	drawText(screen, c.Time, small, right, barY+pad/2+loc.Size+6*e.layout.Scale, 1, 1)
}

// fitText shortens s with a trailing ellipsis until measure reports it fits in maxW.
func fitText(s string, maxW float64, measure func(string) float64) string {
	if measure(s) <= maxW {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := string(runes[:n]) + "..."
		if measure(candidate) <= maxW {
			return candidate
		}
	}
	return ""
}
