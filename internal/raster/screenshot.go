package raster

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Scale enlarges src by an integer factor with nearest-neighbour sampling.
func Scale(src *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	for y := 0; y < dst.Rect.Dy(); y++ {
		for x := 0; x < dst.Rect.Dx(); x++ {
			dst.SetRGBA(x, y, src.RGBAAt(b.Min.X+x/factor, b.Min.Y+y/factor))
		}
	}
	return dst
}

// SaveScreenshot writes img scaled by factor to dir/<name>_<timestamp>.png and
// returns the path. The directory is created if needed.
func SaveScreenshot(dir, name string, img *image.RGBA, factor int) (string, error) {
	if dir == "" {
		return "", errors.New("raster: no screenshot directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("raster: cannot create %s: %w", dir, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", name, timestamp))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("raster: cannot create screenshot: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, Scale(img, factor)); err != nil {
		return "", fmt.Errorf("raster: cannot encode screenshot: %w", err)
	}
	return path, nil
}
