package overlay

import (
	"context"
	"image"
	"log"
	"sync"

	"github.com/sudorandom/hiway/pkg/mapview"
	"github.com/sudorandom/hiway/pkg/sources"
)

type Options struct {
	Center      mapview.LatLng
	Zoom        int
	TileURL     string
	Subdomains  string
	MaxZoom     int
	Attribution string
	Retina      bool
	// Tiles resolves base tiles for LoadTiles. Nil leaves the base layer blank.
	Tiles mapview.TileSource
}

// DefaultOptions frames Singapore over the CARTO dark basemap.
func DefaultOptions() Options {
	return Options{
		Center:      CBD,
		Zoom:        12,
		TileURL:     sources.CartoDarkTileURL,
		Subdomains:  sources.CartoSubdomains,
		MaxZoom:     sources.CartoMaxZoom,
		Attribution: sources.CartoAttribution,
	}
}

// Controller owns the map instance and keeps its overlay in step with the
// selected Mode. The zero Mode is Dwell.
type Controller struct {
	opts Options

	mu      sync.Mutex
	mode    Mode
	m       *mapview.Map
	tiles   *mapview.TileLayer
	overlay []mapview.Layer
}

func NewController(opts Options) *Controller {
	return &Controller{opts: opts}
}

// Initialize creates the map inside container. It does nothing when the
// container is not ready yet or a map already exists, so callers may retry it
// every frame.
func (c *Controller) Initialize(container *image.RGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m != nil || container == nil || container.Bounds().Empty() {
		return
	}
	m, err := mapview.New(container, c.opts.Center, c.opts.Zoom)
	if err != nil {
		return
	}
	tiles := mapview.NewTileLayer(c.opts.TileURL, mapview.TileOptions{
		Subdomains:  c.opts.Subdomains,
		MaxZoom:     c.opts.MaxZoom,
		Attribution: c.opts.Attribution,
		Retina:      c.opts.Retina,
	})
	if err := m.AddLayer(tiles); err != nil {
		log.Printf("[MAP] Error adding base layer: %v", err)
		if err := m.Remove(); err != nil {
			log.Printf("[MAP] Error removing map: %v", err)
		}
		return
	}
	c.m, c.tiles = m, tiles
	c.rebuild()
}

// SetMode stores mode and, once the map exists, rebuilds the overlay before returning.
func (c *Controller) SetMode(mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	if c.m != nil {
		c.rebuild()
	}
}

// rebuild clears everything above the base tiles and draws the boundary and
// the geometry for the current mode. Callers hold c.mu.
func (c *Controller) rebuild() {
	c.m.EachLayer(func(l mapview.Layer) {
		if _, ok := l.(*mapview.TileLayer); ok {
			return
		}
		if err := c.m.RemoveLayer(l); err != nil {
			log.Printf("[MAP] Error removing layer %s: %v", l.ID(), err)
		}
	})
	c.overlay = c.overlay[:0]

	add := func(l mapview.Layer) {
		if err := c.m.AddLayer(l); err != nil {
			log.Printf("[MAP] Error adding layer: %v", err)
			return
		}
		c.overlay = append(c.overlay, l)
	}
	add(boundaryLayer())
	for _, g := range Geometries(c.mode) {
		add(g.Layer())
	}
}

// Teardown destroys the map and releases every layer and listener. Calling it
// again, or before Initialize, does nothing.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		return
	}
	if err := c.m.Remove(); err != nil {
		log.Printf("[MAP] Error removing map: %v", err)
	}
	c.m, c.tiles, c.overlay = nil, nil, nil
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Map() *mapview.Map {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m
}

func (c *Controller) Initialized() bool {
	return c.Map() != nil
}

func (c *Controller) TileLayer() *mapview.TileLayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tiles
}

// Overlay returns the layers drawn above the base tiles, boundary first.
func (c *Controller) Overlay() []mapview.Layer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]mapview.Layer(nil), c.overlay...)
}

// Render repaints the map into its container. It is a no-op before Initialize.
func (c *Controller) Render() error {
	m := c.Map()
	if m == nil {
		return nil
	}
	return m.Render()
}

// LoadTiles fetches the base tiles for the current view through Options.Tiles.
func (c *Controller) LoadTiles(ctx context.Context) error {
	t := c.TileLayer()
	if t == nil {
		return nil
	}
	return t.Load(ctx, c.opts.Tiles)
}

// SetZoom changes the zoom level around the fixed center, clamped to the base
// layer's range. It reports the zoom in effect and whether it changed.
func (c *Controller) SetZoom(zoom int) (int, bool) {
	c.mu.Lock()
	m, tiles := c.m, c.tiles
	c.mu.Unlock()
	if m == nil {
		return 0, false
	}
	center, current := m.View()
	zoom = max(0, min(zoom, tiles.Options.MaxZoom))
	if zoom == current {
		return current, false
	}
	if err := m.SetView(center, zoom); err != nil {
		log.Printf("[MAP] Error changing zoom: %v", err)
		return current, false
	}
	return zoom, true
}

// LatLngAt converts a point on the map surface to a geographic position.
func (c *Controller) LatLngAt(pt image.Point) (mapview.LatLng, bool) {
	m := c.Map()
	if m == nil {
		return mapview.LatLng{}, false
	}
	return m.Projection().Unproject(float64(pt.X)+0.5, float64(pt.Y)+0.5), true
}
