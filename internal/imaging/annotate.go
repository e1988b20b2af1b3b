package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Canvas is an RGBA copy of a page used to draw debug annotations.
// Drawing never touches the source image.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas copies img into a new RGBA canvas with origin (0,0).
func NewCanvas(img image.Image) *Canvas {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Canvas{img: dst}
}

// Image returns the annotated image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// VLine draws a vertical line at x from y1 to y2 (inclusive), thickness pixels wide.
func (c *Canvas) VLine(x, y1, y2, thickness int, col color.Color) {
	c.FillRect(image.Rect(x-thickness/2, y1, x-thickness/2+thickness, y2+1), col)
}

// HLine draws a horizontal line at y from x1 to x2 (inclusive), thickness pixels high.
func (c *Canvas) HLine(y, x1, x2, thickness int, col color.Color) {
	c.FillRect(image.Rect(x1, y-thickness/2, x2+1, y-thickness/2+thickness), col)
}

// FillRect fills r (clipped to the canvas) with col.
func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

// StrokeRect outlines r with a border of the given thickness.
func (c *Canvas) StrokeRect(r image.Rectangle, thickness int, col color.Color) {
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness), col)
	c.FillRect(image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y), col)
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y), col)
	c.FillRect(image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y), col)
}

// Label draws text with its baseline-left corner at (x, y) using the 7x13 basic font.
// Text that falls outside the canvas is clipped.
func (c *Canvas) Label(x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// Palette returns n visually distinct, fully opaque colours spread evenly
// around the HSV hue circle.
func Palette(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := 360 * float64(i) / float64(max(n, 1))
		colors[i] = colorful.Hsv(hue, 0.85, 0.8).Clamped()
	}
	return colors
}
