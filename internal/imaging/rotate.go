package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Background is the fill used for pixels uncovered by rotation.
var Background = color.White

// Rotate returns img rotated counter-clockwise by angle degrees about its centre.
//
// The output keeps the input's width and height: corners that rotate out of
// the canvas are dropped and uncovered areas are filled with Background.
// Pixels are resampled with bilinear interpolation. An angle of 0 returns a
// copy.
func Rotate(img image.Image, angle float64) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if angle == 0 {
		return imaging.Clone(img)
	}
	rotated := imaging.Rotate(img, angle, Background)
	return imaging.CropCenter(rotated, w, h)
}

// Downscale shrinks img so that its longest side is at most maxSide pixels,
// preserving the aspect ratio. The second result is the scale factor applied
// (1 when the image already fits or maxSide <= 0).
func Downscale(img image.Image, maxSide int) (image.Image, float64) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img, 1
	}
	fitted := imaging.Fit(img, maxSide, maxSide, imaging.Linear)
	return fitted, float64(fitted.Bounds().Dx()) / float64(w)
}
