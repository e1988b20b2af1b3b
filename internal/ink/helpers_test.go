package ink

import (
	"image"
	"image/color"
	"image/draw"
)

// createGray returns a width x height grayscale page filled with value.
func createGray(width, height int, value uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(g, g.Bounds(), image.NewUniform(color.Gray{Y: value}), image.Point{}, draw.Src)
	return g
}

// fillGray paints r on g with value.
func fillGray(g *image.Gray, r image.Rectangle, value uint8) {
	draw.Draw(g, r, image.NewUniform(color.Gray{Y: value}), image.Point{}, draw.Src)
}
