package trafficengine

import (
	"fmt"
	"image"
	"log"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sudorandom/hiway/pkg/utils"
)

// captureFrame copies img and writes it to FrameCaptureDir in the background.
func (e *Engine) captureFrame(img *ebiten.Image, suffix string, timestamp time.Time) {
	if e.FrameCaptureDir == "" {
		log.Printf("[CAPTURE] No capture directory configured")
		return
	}
	rgba := readPixels(img)
	path := e.framePath(suffix, timestamp)
	go func() {
		if err := utils.WritePNG(path, rgba); err != nil {
			log.Printf("[CAPTURE] %v", err)
			return
		}
		log.Printf("[CAPTURE] Captured frame: %s", path)
	}()
}

// saveFrame is the synchronous form of captureFrame.
func (e *Engine) saveFrame(img *ebiten.Image, suffix string, timestamp time.Time) (string, error) {
	if e.FrameCaptureDir == "" {
		return "", fmt.Errorf("no capture directory configured")
	}
	path := e.framePath(suffix, timestamp)
	if err := utils.WritePNG(path, readPixels(img)); err != nil {
		return "", err
	}
	log.Printf("[CAPTURE] Captured frame: %s", path)
	return path, nil
}

func (e *Engine) framePath(suffix string, timestamp time.Time) string {
	filename := fmt.Sprintf("hiway-%s-%s.png", timestamp.Format("20060102-150405"), suffix)
	return filepath.Join(e.FrameCaptureDir, filename)
}

// readPixels copies the GPU image so it can be encoded off the game loop.
func readPixels(img *ebiten.Image) *image.RGBA {
	rgba := image.NewRGBA(img.Bounds())
	img.ReadPixels(rgba.Pix)
	return rgba
}
