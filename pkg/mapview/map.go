package mapview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/google/uuid"
	"github.com/sudorandom/hiway/pkg/utils"
)

var (
	ErrNoContainer = errors.New("map container not found")
	ErrMapRemoved  = errors.New("map has been removed")

	ErrInvalidPosition = errors.New("position outside map bounds")
	ErrNoTemplate      = errors.New("tile layer has no URL template")
)

type Event string

const (
	EventLayerAdd    Event = "layeradd"
	EventLayerRemove Event = "layerremove"
	EventViewReset   Event = "viewreset"
	EventTileLoad    Event = "tileload"
	EventUnload      Event = "unload"
)

// Listener receives map events. layer is nil for view-level events.
type Listener func(ev Event, layer Layer)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Map owns a container surface and the ordered stack of layers drawn into it.
// A map is single-use: after Remove every method reports ErrMapRemoved or does nothing.
type Map struct {
	mu         sync.Mutex
	container  *image.RGBA
	proj       Projection
	background color.RGBA
	layers     []Layer
	listeners  map[Event][]listenerEntry
	nextID     uint64
	removed    bool
}

// New binds a map to container with the given initial view.
func New(container *image.RGBA, center LatLng, zoom int) (*Map, error) {
	if container == nil || container.Bounds().Empty() {
		return nil, ErrNoContainer
	}
	b := container.Bounds()
	return &Map{
		container:  container,
		proj:       Projection{Center: center, Zoom: zoom, Width: b.Dx(), Height: b.Dy()},
		background: color.RGBA{14, 14, 16, 255},
		listeners:  make(map[Event][]listenerEntry),
	}, nil
}

// SetView recenters the map. Invalid centers are refused and the view is kept.
func (m *Map) SetView(center LatLng, zoom int) error {
	if !center.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, center)
	}
	m.mu.Lock()
	if m.removed {
		m.mu.Unlock()
		return ErrMapRemoved
	}
	m.proj.Center, m.proj.Zoom = center, zoom
	m.mu.Unlock()
	m.fire(EventViewReset, nil)
	return nil
}

func (m *Map) View() (LatLng, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.proj.Center, m.proj.Zoom
}

func (m *Map) Projection() Projection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.proj
}

func (m *Map) Container() *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.container
}

// AddLayer appends l to the top of the stack. Adding a layer twice is a no-op.
// Layers with a coordinate outside the map bounds are refused.
func (m *Map) AddLayer(l Layer) error {
	if ll, bad := invalidPosition(l); bad {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, ll)
	}
	if t, ok := l.(*TileLayer); ok && t.Template == "" {
		return ErrNoTemplate
	}
	m.mu.Lock()
	if m.removed {
		m.mu.Unlock()
		return ErrMapRemoved
	}
	for _, have := range m.layers {
		if have == l {
			m.mu.Unlock()
			return nil
		}
	}
	b := l.base()
	if b.id == "" {
		b.id = uuid.NewString()
	}
	b.m.Store(m)
	m.layers = append(m.layers, l)
	m.mu.Unlock()

	m.fire(EventLayerAdd, l)
	return nil
}

func (m *Map) RemoveLayer(l Layer) error {
	m.mu.Lock()
	if m.removed {
		m.mu.Unlock()
		return ErrMapRemoved
	}
	idx := -1
	for i, have := range m.layers {
		if have == l {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return nil
	}
	m.layers = append(m.layers[:idx], m.layers[idx+1:]...)
	detach(l)
	m.mu.Unlock()

	m.fire(EventLayerRemove, l)
	return nil
}

func detach(l Layer) {
	l.base().m.Store(nil)
	if t, ok := l.(*TileLayer); ok {
		t.release()
	}
}

func (m *Map) HasLayer(l Layer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, have := range m.layers {
		if have == l {
			return true
		}
	}
	return false
}

// Layers returns a snapshot of the stack, bottom first.
func (m *Map) Layers() []Layer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Layer(nil), m.layers...)
}

// EachLayer calls fn for every layer, bottom first. fn may add or remove layers.
func (m *Map) EachLayer(fn func(Layer)) {
	for _, l := range m.Layers() {
		fn(l)
	}
}

// On registers fn for ev and returns a function that unregisters it.
func (m *Map) On(ev Event, fn Listener) (off func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removed {
		return func() {}
	}
	m.nextID++
	id := m.nextID
	m.listeners[ev] = append(m.listeners[ev], listenerEntry{id: id, fn: fn})
	return func() { m.off(ev, id) }
}

func (m *Map) off(ev Event, id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.listeners[ev]
	for i, e := range entries {
		if e.id == id {
			m.listeners[ev] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// ListenerCount reports how many listeners are registered across all events.
func (m *Map) ListenerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, entries := range m.listeners {
		n += len(entries)
	}
	return n
}

func (m *Map) fire(ev Event, l Layer) {
	m.mu.Lock()
	if m.removed {
		m.mu.Unlock()
		return
	}
	entries := append([]listenerEntry(nil), m.listeners[ev]...)
	m.mu.Unlock()
	for _, e := range entries {
		e.fn(ev, l)
	}
}

// Render repaints the whole container: background, every layer in order, then attribution.
func (m *Map) Render() error {
	m.mu.Lock()
	if m.removed {
		m.mu.Unlock()
		return ErrMapRemoved
	}
	dst, proj, bg := m.container, m.proj, m.background
	layers := append([]Layer(nil), m.layers...)
	m.mu.Unlock()

	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	var attribution string
	for _, l := range layers {
		l.Draw(dst, proj)
		if t, ok := l.(*TileLayer); ok && t.Options.Attribution != "" {
			attribution = t.Options.Attribution
		}
	}
	if attribution != "" {
		drawAttribution(dst, attribution)
	}
	return nil
}

func drawAttribution(dst *image.RGBA, s string) {
	b := dst.Bounds()
	w, h := utils.TextWidth(s)+8, 15
	r := image.Rect(b.Max.X-w, b.Max.Y-h, b.Max.X, b.Max.Y)
	utils.FillRect(dst, r, color.NRGBA{0, 0, 0, 140})
	utils.DrawText(dst, s, r.Min.X+4, r.Min.Y+1, color.RGBA{200, 200, 210, 255})
}

// Remove destroys the map: it fires EventUnload, detaches every layer, drops
// every listener and releases the container.
func (m *Map) Remove() error {
	m.mu.Lock()
	if m.removed {
		m.mu.Unlock()
		return ErrMapRemoved
	}
	m.mu.Unlock()

	m.fire(EventUnload, nil)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.layers {
		detach(l)
	}
	m.layers = nil
	m.listeners = make(map[Event][]listenerEntry)
	m.container = nil
	m.removed = true
	return nil
}

func (m *Map) Removed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removed
}
