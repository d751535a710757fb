package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/silbinarywolf/preferdiscretegpu"
	"github.com/sudorandom/hiway/pkg/gauge"
	"github.com/sudorandom/hiway/pkg/overlay"
	"github.com/sudorandom/hiway/pkg/sources"
	"github.com/sudorandom/hiway/pkg/traffic"
	"github.com/sudorandom/hiway/pkg/trafficengine"
	"github.com/sudorandom/hiway/pkg/utils"
)

type CLI struct {
	View   ViewCmd   `cmd:"" default:"withargs" help:"Open the dashboard."`
	Export ExportCmd `cmd:"" help:"Write an overlay as GeoJSON."`
	Gauge  GaugeCmd  `cmd:"" help:"Render the congestion gauge to a PNG."`
}

type ViewCmd struct {
	Snapshot string       `help:"YAML snapshot to display instead of the built-in one." env:"HIWAY_SNAPSHOT" type:"path"`
	Refresh  time.Duration `help:"How often to re-read the snapshot." default:"5s"`
	Mode     overlay.Mode `help:"Initial overlay (dwell, speed, count)." default:"dwell"`

	TileURL  string        `help:"Base map tile URL template." env:"HIWAY_TILE_URL" default:"${tile_url}"`
	OSM      bool          `help:"Use the standard OpenStreetMap tiles instead of --tile-url." name:"osm"`
	Retina   bool          `help:"Request high-DPI tiles."`
	CacheDir string        `help:"Tile cache directory." env:"HIWAY_CACHE_DIR" default:"data/tile-cache" type:"path"`
	CacheTTL time.Duration `help:"How long cached tiles stay valid." default:"168h"`
	Offline  bool          `help:"Do not fetch base map tiles."`

	Headless     bool `help:"Run without a local window (Xvfb rendering active)."`
	Width        int  `help:"Internal rendering width." default:"1280"`
	Height       int  `help:"Internal rendering height." default:"800"`
	WindowWidth  int  `help:"Initial window width (non-headless only)." default:"1280"`
	WindowHeight int  `help:"Initial window height (non-headless only)." default:"800"`
	TPS          int  `help:"Ticks per second (engine updates)." default:"30"`

	CaptureDir   string        `help:"Directory for frame captures (press P)." type:"path"`
	CaptureAfter time.Duration `help:"Capture one frame after this delay, then exit. Requires --capture-dir."`
}

func (c *ViewCmd) Run() error {
	if c.CaptureAfter > 0 && c.CaptureDir == "" {
		return fmt.Errorf("--capture-after requires --capture-dir")
	}
	opts, err := c.overlayOptions()
	if err != nil {
		return err
	}
	src, err := sources.Open(c.Snapshot)
	if err != nil {
		return err
	}

	var tiles *utils.TileFetcher
	if !c.Offline {
		tiles = &utils.TileFetcher{UserAgent: utils.DefaultUserAgent}
		if c.CacheDir != "" {
			if err := os.MkdirAll(filepath.Dir(c.CacheDir), 0o755); err != nil {
				return fmt.Errorf("failed to create cache directory: %w", err)
			}
			cache, err := utils.OpenTileCache(c.CacheDir, c.CacheTTL)
			if err != nil {
				return fmt.Errorf("failed to open tile cache: %w", err)
			}
			tiles.Cache = cache
		}
	}

	engine := trafficengine.NewEngine(trafficengine.Config{
		Width:       c.Width,
		Height:      c.Height,
		Source:      src,
		Mode:        c.Mode,
		Overlay:     opts,
		Tiles:       tiles,
		CaptureDir:  c.CaptureDir,
		AutoCapture: c.CaptureAfter,
	})
	defer engine.Close()

	if err := engine.LoadData(); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	if c.Snapshot != "" && c.Refresh > 0 {
		go engine.StartSnapshotLoop(c.Refresh)
	}

	ebiten.SetTPS(c.TPS)
	if c.Headless {
		log.Println("Running in HEADLESS mode (Rendering active).")
	} else {
		ebiten.SetWindowSize(c.WindowWidth, c.WindowHeight)
		ebiten.SetWindowTitle("HiWay")
	}
	return ebiten.RunGame(engine)
}

// overlayOptions resolves the base map flags into controller options.
func (c *ViewCmd) overlayOptions() (overlay.Options, error) {
	opts := overlay.DefaultOptions()
	opts.Retina = c.Retina
	if c.OSM {
		opts.TileURL = sources.OpenStreetMapTileURL
		opts.Subdomains = ""
		opts.MaxZoom = sources.OpenStreetMapMaxZoom
		opts.Attribution = sources.OpenStreetMapAttrib
		return opts, nil
	}
	if c.TileURL == "" {
		return opts, fmt.Errorf("--tile-url must not be empty")
	}
	opts.TileURL = c.TileURL
	return opts, nil
}

type ExportCmd struct {
	Mode   overlay.Mode `help:"Overlay to export (dwell, speed, count)." default:"dwell"`
	Output string       `short:"o" help:"Output file, - for stdout." default:"-"`
}

func (c *ExportCmd) Run() error {
	data, err := overlay.ExportGeoJSON(c.Mode)
	if err != nil {
		return err
	}
	if c.Output == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(c.Output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Output, err)
	}
	log.Printf("Wrote %s overlay to %s", c.Mode, c.Output)
	return nil
}

type GaugeCmd struct {
	Level  string `help:"Congestion level (LOW, MEDIUM, HIGH)." default:"HIGH"`
	Output string `short:"o" help:"Output PNG." required:"" type:"path"`
}

func (c *GaugeCmd) Run() error {
	level, err := traffic.ParseCongestionLevel(c.Level)
	if err != nil {
		return err
	}
	if err := utils.WritePNG(c.Output, gauge.Image(level)); err != nil {
		return err
	}
	log.Printf("Wrote %s gauge to %s", level, c.Output)
	return nil
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("hiway"),
		kong.Description("HiWay traffic monitoring dashboard."),
		kong.UsageOnError(),
		kong.Vars{"tile_url": sources.CartoDarkTileURL},
	)
	ctx.FatalIfErrorf(ctx.Run())
}
