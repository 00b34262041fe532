package globeengine

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// captureFilename names a frame so captures sort by time and then by frame.
func captureFilename(suffix string, frame int, timestamp time.Time) string {
	return fmt.Sprintf("globe-%s-%06d-%s.png", timestamp.Format("20060102-150405"), frame, suffix)
}

func (e *Engine) captureFrame(img *ebiten.Image, suffix string, timestamp time.Time) {
	if e.FrameCaptureDir == "" {
		return
	}
	if err := os.MkdirAll(e.FrameCaptureDir, 0o755); err != nil {
		log.Printf("[CAPTURE] Error creating capture directory: %v", err)
		return
	}
	path := filepath.Join(e.FrameCaptureDir, captureFilename(suffix, e.frame, timestamp))

	// ReadPixels copies, so the encode can run after the frame is reused.
	rgba := image.NewRGBA(img.Bounds())
	img.ReadPixels(rgba.Pix)

	go func() {
		if err := writePNG(path, rgba); err != nil {
			log.Printf("[CAPTURE] %v", err)
			return
		}
		log.Printf("[CAPTURE] Captured frame: %s", path)
	}()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating capture file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding capture: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing capture file: %w", err)
	}
	return nil
}
