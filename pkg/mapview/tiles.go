package mapview

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// TileSource resolves a tile URL to an image.
type TileSource interface {
	Tile(ctx context.Context, url string) (image.Image, error)
}

type TileCoord struct {
	X, Y, Z int
}

type TileOptions struct {
	Subdomains  string
	MaxZoom     int
	Attribution string
	Retina      bool
	// Background fills the layer before tiles are drawn. Zero keeps the map's own background.
	Background  color.RGBA
	// Concurrency bounds parallel downloads during Load.
	Concurrency int
}

// TileLayer is the raster base layer, addressed by a {s}/{z}/{x}/{y}{r} URL template.
type TileLayer struct {
	layerBase
	Template string
	Options  TileOptions

	mu    sync.Mutex
	tiles map[TileCoord]image.Image
}

func NewTileLayer(template string, opts TileOptions) *TileLayer {
	if opts.MaxZoom <= 0 {
		opts.MaxZoom = 18
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &TileLayer{Template: template, Options: opts, tiles: make(map[TileCoord]image.Image)}
}

func (t *TileLayer) URL(c TileCoord) string {
	s := ""
	if n := len(t.Options.Subdomains); n > 0 {
		idx := (c.X + c.Y) % n
		if idx < 0 {
			idx = -idx
		}
		s = string(t.Options.Subdomains[idx])
	}
	r := ""
	if t.Options.Retina {
		r = "@2x"
	}
	return strings.NewReplacer(
		"{s}", s,
		"{z}", strconv.Itoa(c.Z),
		"{x}", strconv.Itoa(c.X),
		"{y}", strconv.Itoa(c.Y),
		"{r}", r,
	).Replace(t.Template)
}

type placedTile struct {
	coord TileCoord
	x, y  int
}

// placement lists the tiles covering the view and where their top-left corner lands.
func (t *TileLayer) placement(proj Projection) []placedTile {
	z := proj.Zoom
	if z > t.Options.MaxZoom || z < 0 {
		return nil
	}
	span := float64(TileSize)
	ox, oy := proj.Origin()
	n := 1 << z

	var out []placedTile
	x0, x1 := int(math.Floor(ox/span)), int(math.Floor((ox+float64(proj.Width)-1)/span))
	y0, y1 := int(math.Floor(oy/span)), int(math.Floor((oy+float64(proj.Height)-1)/span))
	for ty := y0; ty <= y1; ty++ {
		if ty < 0 || ty >= n {
			continue
		}
		for tx := x0; tx <= x1; tx++ {
			wx := ((tx % n) + n) % n
			out = append(out, placedTile{
				coord: TileCoord{X: wx, Y: ty, Z: z},
				x:     int(math.Round(float64(tx)*span - ox)),
				y:     int(math.Round(float64(ty)*span - oy)),
			})
		}
	}
	return out
}

// Visible returns the distinct tiles needed to cover the view.
func (t *TileLayer) Visible(proj Projection) []TileCoord {
	seen := make(map[TileCoord]bool)
	var out []TileCoord
	for _, p := range t.placement(proj) {
		if !seen[p.coord] {
			seen[p.coord] = true
			out = append(out, p.coord)
		}
	}
	return out
}

// Load fetches every visible tile not already held. Failed tiles are logged and
// left blank; only cancellation is reported as an error.
func (t *TileLayer) Load(ctx context.Context, src TileSource) error {
	m := t.Map()
	if m == nil || src == nil {
		return nil
	}
	proj := m.Projection()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.Options.Concurrency)
	for _, c := range t.Visible(proj) {
		if t.Has(c) {
			continue
		}
		g.Go(func() error {
			url := t.URL(c)
			img, err := src.Tile(ctx, url)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("[TILES] Error loading %s: %v", url, err)
				return nil
			}
			t.mu.Lock()
			t.tiles[c] = img
			t.mu.Unlock()
			m.fire(EventTileLoad, t)
			return nil
		})
	}
	return g.Wait()
}

func (t *TileLayer) Has(c TileCoord) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.tiles[c]
	return ok
}

// Loaded reports how many tiles are held.
func (t *TileLayer) Loaded() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tiles)
}

func (t *TileLayer) release() {
	t.mu.Lock()
	t.tiles = make(map[TileCoord]image.Image)
	t.mu.Unlock()
}

func (t *TileLayer) Draw(dst *image.RGBA, proj Projection) {
	if t.Options.Background.A != 0 {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(t.Options.Background), image.Point{}, draw.Src)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.placement(proj) {
		img, ok := t.tiles[p.coord]
		if !ok {
			continue
		}
		r := image.Rect(p.x, p.y, p.x+TileSize, p.y+TileSize).Add(dst.Bounds().Min)
		draw.Draw(dst, r, img, img.Bounds().Min, draw.Src)
	}
}
