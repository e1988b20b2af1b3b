package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// Gray returns the luminance of img as an 8-bit grayscale image.
//
// A *image.Gray input is returned as is; callers must treat the result as
// read-only. Other images are converted with bild's weighted grayscale
// (0.3R + 0.6G + 0.1B) and copied into a new zero-origin *image.Gray.
func Gray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	rgba := effect.Grayscale(img)
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := rgba.Pix[y*rgba.Stride:]
		dst := g.Pix[y*g.Stride : y*g.Stride+w]
		for x := range dst {
			// bild writes the same luminance to R, G and B.
			dst[x] = src[x*4]
		}
	}
	return g
}

// Luma returns the gray value at (x, y) relative to g.Bounds().Min.
// No bounds checking is done.
func Luma(g *image.Gray, x, y int) uint8 {
	return g.Pix[y*g.Stride+x]
}

// RowMeans returns the mean luminance of every row of g.
func RowMeans(g *image.Gray) []float64 {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	means := make([]float64, h)
	if w == 0 {
		return means
	}
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		sum := 0
		for _, v := range row {
			sum += int(v)
		}
		means[y] = float64(sum) / float64(w)
	}
	return means
}

// MeanIntensity returns the mean luminance of the rectangle r of g.
//
// r is interpreted relative to g.Bounds().Min and clipped to the image.
// The second result is false when the clipped rectangle is empty.
func MeanIntensity(g *image.Gray, r image.Rectangle) (float64, bool) {
	r = r.Intersect(image.Rect(0, 0, g.Bounds().Dx(), g.Bounds().Dy()))
	if r.Empty() {
		return 0, false
	}
	sum := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := g.Pix[y*g.Stride+r.Min.X : y*g.Stride+r.Max.X]
		for _, v := range row {
			sum += int(v)
		}
	}
	return float64(sum) / float64(r.Dx()*r.Dy()), true
}
