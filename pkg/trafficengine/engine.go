// Package trafficengine runs the HiWay dashboard as an ebiten game: it lays out
// the cards, mounts the overlay map and routes input to it.
package trafficengine

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/sudorandom/hiway/pkg/gauge"
	"github.com/sudorandom/hiway/pkg/mapview"
	"github.com/sudorandom/hiway/pkg/overlay"
	"github.com/sudorandom/hiway/pkg/sources"
	"github.com/sudorandom/hiway/pkg/traffic"
	"github.com/sudorandom/hiway/pkg/utils"
	"golang.org/x/image/font/gofont/goregular"
)

type Config struct {
	Width, Height int

	Source  sources.Source
	Mode    overlay.Mode
	Overlay overlay.Options
	// Tiles backs the base map. Nil draws the map without tiles.
	Tiles *utils.TileFetcher

	CaptureDir string
	// AutoCapture saves one frame after the delay and then stops the game.
	AutoCapture time.Duration
}

type Engine struct {
	Width, Height   int
	FrameCaptureDir string

	source     sources.Source
	snapshot   traffic.Snapshot
	snapshotMu sync.Mutex

	layout     Layout
	controller *overlay.Controller
	tabs       *overlay.TabSelector
	tiles      *utils.TileFetcher

	mapCPU   *image.RGBA
	mapImage *ebiten.Image
	mapDirty atomic.Bool

	gauge       *gauge.Renderer
	gaugeCPU    *image.RGBA
	gaugeImage  *ebiten.Image
	gaugeLevel  traffic.CongestionLevel
	gaugeDrawn  bool
	fontSource  *text.GoTextFaceSource

	captureRequested bool
	autoCaptureAt    time.Time

	ctx       context.Context
	cancel    context.CancelFunc
	loaders   sync.WaitGroup
	closeOnce sync.Once
	closed    atomic.Bool
}

func NewEngine(cfg Config) *Engine {
	s, _ := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	ctx, cancel := context.WithCancel(context.Background())

	src := cfg.Source
	if src == nil {
		src = sources.StaticSource{}
	}
	opts := cfg.Overlay
	if cfg.Tiles != nil {
		opts.Tiles = cfg.Tiles
	}

	e := &Engine{
		Width:           cfg.Width,
		Height:          cfg.Height,
		FrameCaptureDir: cfg.CaptureDir,
		source:          src,
		snapshot:        sources.Static(),
		layout:          ComputeLayout(cfg.Width, cfg.Height),
		controller:      overlay.NewController(opts),
		tiles:           cfg.Tiles,
		fontSource:      s,
		ctx:             ctx,
		cancel:          cancel,
	}
	e.controller.SetMode(cfg.Mode)
	e.tabs = &overlay.TabSelector{Origin: image.Pt(10, 10), OnSelect: e.selectMode}
	if cfg.AutoCapture > 0 {
		e.autoCaptureAt = time.Now().Add(cfg.AutoCapture)
	}

	if v := e.layout.MapView; !v.Empty() {
		e.mapCPU = image.NewRGBA(image.Rect(0, 0, v.Dx(), v.Dy()))
		e.mapImage = ebiten.NewImage(v.Dx(), v.Dy())
	}
	e.gaugeCPU = image.NewRGBA(image.Rect(0, 0, gauge.Size, gauge.Size))
	e.gaugeImage = ebiten.NewImage(gauge.Size, gauge.Size)
	e.gauge = gauge.New(e.gaugeCPU)
	return e
}

// LoadData fetches the first snapshot.
func (e *Engine) LoadData() error {
	s, err := e.source.Snapshot(e.ctx)
	if err != nil {
		return err
	}
	e.setSnapshot(s)
	return nil
}

func (e *Engine) Snapshot() traffic.Snapshot {
	e.snapshotMu.Lock()
	defer e.snapshotMu.Unlock()
	return e.snapshot
}

func (e *Engine) setSnapshot(s traffic.Snapshot) {
	e.snapshotMu.Lock()
	e.snapshot = s
	e.snapshotMu.Unlock()
}

// StartSnapshotLoop re-reads the source every interval until Close.
func (e *Engine) StartSnapshotLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			s, err := e.source.Snapshot(e.ctx)
			if err != nil {
				if e.ctx.Err() == nil {
					log.Printf("[SNAPSHOT] Error refreshing: %v", err)
				}
				continue
			}
			e.setSnapshot(s)
		}
	}
}

// StartTileLoader fetches the base tiles for the mounted map in the background.
func (e *Engine) StartTileLoader() {
	e.loaders.Add(1)
	go func() {
		defer e.loaders.Done()
		start := time.Now()
		if err := e.controller.LoadTiles(e.ctx); err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Printf("[TILES] Error loading tiles: %v", err)
			}
			return
		}
		if t := e.controller.TileLayer(); t != nil {
			log.Printf("[TILES] Loaded %d tiles in %s", t.Loaded(), time.Since(start).Round(time.Millisecond))
		}
	}()
}

func (e *Engine) Update() error {
	if e.closed.Load() {
		return ebiten.Termination
	}
	e.mountMap()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		e.handleClick(image.Pt(x, y))
	}
	for i, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3} {
		if inpututil.IsKeyJustPressed(key) {
			e.selectMode(overlay.Modes[i])
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		e.zoom(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		e.zoom(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		e.captureRequested = true
	}
	if !e.autoCaptureAt.IsZero() && time.Now().After(e.autoCaptureAt) {
		e.captureRequested = true
	}

	e.refreshSurfaces()
	return nil
}

// mountMap creates the map once its surface exists. It runs every tick until
// the controller accepts the surface.
func (e *Engine) mountMap() {
	if e.controller.Initialized() || e.mapCPU == nil {
		return
	}
	e.controller.Initialize(e.mapCPU)
	m := e.controller.Map()
	if m == nil {
		return
	}
	markDirty := func(mapview.Event, mapview.Layer) { e.mapDirty.Store(true) }
	for _, ev := range []mapview.Event{mapview.EventLayerAdd, mapview.EventLayerRemove, mapview.EventViewReset, mapview.EventTileLoad} {
		m.On(ev, markDirty)
	}
	e.mapDirty.Store(true)
	e.StartTileLoader()
}

// handleClick routes a screen-space click to the tab row over the map.
func (e *Engine) handleClick(pt image.Point) bool {
	if !pt.In(e.layout.MapView) {
		return false
	}
	local := pt.Sub(e.layout.MapView.Min)
	if e.tabs.Click(local, e.controller.Mode()) {
		return true
	}
	if ll, ok := e.controller.LatLngAt(local); ok {
		log.Printf("[MAP] Clicked %.4f, %.4f", ll.Lat, ll.Lng)
	}
	return false
}

// zoom steps the map zoom and fetches the tiles the new view needs.
func (e *Engine) zoom(delta int) bool {
	m := e.controller.Map()
	if m == nil {
		return false
	}
	_, current := m.View()
	z, changed := e.controller.SetZoom(current + delta)
	if !changed {
		return false
	}
	log.Printf("[MAP] Zoom %d", z)
	e.StartTileLoader()
	return true
}

func (e *Engine) selectMode(m overlay.Mode) {
	e.controller.SetMode(m)
	e.mapDirty.Store(true)
}

// refreshSurfaces re-rasterizes the map and gauge when their inputs changed
// and uploads the pixels.
func (e *Engine) refreshSurfaces() {
	if e.mapCPU != nil && e.mapDirty.Swap(false) {
		if err := e.controller.Render(); err != nil {
			log.Printf("[MAP] Error rendering: %v", err)
		}
		e.tabs.Draw(e.mapCPU, e.controller.Mode())
		e.mapImage.WritePixels(e.mapCPU.Pix)
	}

	level := e.Snapshot().Congestion.Level
	if !e.gaugeDrawn || level != e.gaugeLevel {
		e.gauge.Render(level)
		e.gaugeImage.WritePixels(e.gaugeCPU.Pix)
		e.gaugeLevel, e.gaugeDrawn = level, true
	}
}

func (e *Engine) Draw(screen *ebiten.Image) {
	screen.Fill(ColorBackground)
	s := e.Snapshot()
	e.drawHeader(screen, s)
	e.drawCongestionCard(screen, s.Congestion)
	e.drawAnomaliesCard(screen, s.Anomalies)
	e.drawStatisticsCard(screen, s.Statistics)
	e.drawMapCard(screen)
	e.drawCameraCard(screen, s.Camera)

	if e.captureRequested {
		e.captureRequested = false
		if e.autoCaptureAt.IsZero() {
			e.captureFrame(screen, "dashboard", time.Now())
			return
		}
		// The game stops after this frame, so write before returning.
		if _, err := e.saveFrame(screen, "dashboard", time.Now()); err != nil {
			log.Printf("[CAPTURE] %v", err)
		}
		e.autoCaptureAt = time.Time{}
		e.closed.Store(true)
	}
}

func (e *Engine) Layout(w, h int) (int, int) { return e.Width, e.Height }

// Close tears down the map, stops background work and closes the tile cache.
// Only the first call has any effect.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		if e.cancel != nil {
			e.cancel()
		}
		e.loaders.Wait()
		if e.controller != nil {
			e.controller.Teardown()
		}
		if e.tiles != nil && e.tiles.Cache != nil {
			if err := e.tiles.Cache.Close(); err != nil {
				log.Printf("[CACHE] Error closing: %v", err)
			}
		}
	})
}
