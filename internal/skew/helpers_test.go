package skew

import (
	"image"
	"image/color"
	"image/draw"
)

// createTestImage creates an in-memory RGBA image filled with a single colour.
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// ruledPage draws a white page with dark horizontal rules, the way a
// questionnaire prints its question separators.
func ruledPage(width, height int, rows []int) *image.RGBA {
	img := createTestImage(width, height, color.White)
	for _, y := range rows {
		draw.Draw(img, image.Rect(width/10, y, width-width/10, y+2), image.NewUniform(color.Black), image.Point{}, draw.Src)
	}
	return img
}
