package skew

import (
	"image"

	"github.com/bmharper/docangle"

	"github.com/ironsheep/omr-grader/internal/imaging"
)

// WhiteLines estimates skew with docangle's white-line detector, which looks
// for the angle at which the most uninterrupted rows of paper appear.
type WhiteLines struct {
	params Params
}

// NewWhiteLines returns a docangle-backed estimator.
func NewWhiteLines(p Params) *WhiteLines {
	return &WhiteLines{params: p}
}

// Name implements Estimator.
func (e *WhiteLines) Name() string { return StrategyWhiteLines }

// Estimate implements Estimator.
//
// docangle reports the page tilt; the correction is its negation, clamped to
// the search window. docangle scores an angle by the fraction of scan lines
// that cross only white paper and refuses angles with fewer than five
// white/content transitions, so a blank or uniform page scores 0 and is
// reported as 0 degrees, not confident.
func (e *WhiteLines) Estimate(img image.Image) (Result, error) {
	if err := e.params.Validate(); err != nil {
		return Result{}, err
	}
	work, _ := imaging.Downscale(img, e.params.WorkingSize)
	gray := imaging.Gray(work)

	params := docangle.NewWhiteLinesParams()
	params.Include90Degrees = false
	params.MinDeltaDegrees = -e.params.AngleRange
	params.MaxDeltaDegrees = e.params.AngleRange
	params.StepDegrees = e.params.AngleStep

	score, tilt := docangle.GetAngleWhiteLines(toDocAngleImage(gray), params)
	if !(score > 0) {
		return Result{Strategy: StrategyWhiteLines}, nil
	}

	return Result{
		Angle:     e.params.clampAngle(-tilt),
		Confident: true,
		Score:     score,
		Strategy:  StrategyWhiteLines,
	}, nil
}

// toDocAngleImage packs g into docangle's tightly strided 8-bit layout.
func toDocAngleImage(g *image.Gray) *docangle.Image {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	pixels := make([]byte, w*h)
	for y := 0; y < h; y++ {
		copy(pixels[y*w:(y+1)*w], g.Pix[y*g.Stride:y*g.Stride+w])
	}
	return &docangle.Image{
		Pixels: pixels,
		Width:  w,
		Height: h,
	}
}
