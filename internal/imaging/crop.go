package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// AnswerRegion returns the fixed answer rectangle of a page: rectWidth x
// rectHeight pixels, aligned to the right border and centred vertically.
//
// Dimensions larger than the page are clamped to the page.
func AnswerRegion(bounds image.Rectangle, rectWidth, rectHeight int) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	if rectWidth > w {
		rectWidth = w
	}
	if rectHeight > h {
		rectHeight = h
	}

	right := w
	left := w - rectWidth
	bottom := (h + rectHeight) / 2
	top := bottom - rectHeight

	return image.Rect(left, top, right, bottom).Add(bounds.Min)
}

// Crop extracts a rectangular region from an image.
func Crop(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	return imaging.Crop(img, r), nil
}

// CropAnswerRegion crops the fixed answer rectangle out of a page.
// It returns the cropped image together with the rectangle that was used.
func CropAnswerRegion(img image.Image, rectWidth, rectHeight int) (*image.NRGBA, image.Rectangle, error) {
	if rectWidth <= 0 || rectHeight <= 0 {
		return nil, image.Rectangle{}, fmt.Errorf("invalid crop size %dx%d", rectWidth, rectHeight)
	}
	r := AnswerRegion(img.Bounds(), rectWidth, rectHeight)
	cropped, err := Crop(img, r)
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	return cropped, r, nil
}
