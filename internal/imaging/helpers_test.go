package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"testing"
)

// createTestImage creates an in-memory RGBA image filled with a single colour.
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// fillRect paints r on img with c.
func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// writeTestPNG saves img as a PNG inside a per-test temporary directory.
func writeTestPNG(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := Save(img, path); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
