package layout

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

// drawHLine draws a black rule two pixels thick at y spanning [x1, x2).
func drawHLine(g *image.Gray, y, x1, x2 int) {
	fillGray(g, image.Rect(x1, y, x2, y+2), 0)
}
