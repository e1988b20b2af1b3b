package skew

import (
	"image"
	"math"

	"github.com/ironsheep/omr-grader/internal/imaging"
)

// Projection estimates skew by maximising the response of a thin horizontal
// two-band kernel over rotated copies of the page.
//
// The kernel is as wide as the page and 1/20 of its height: the top half
// weighs +1/width, the bottom half -1/width. Centred on the page its response
// at a given row equals the summed row means of the upper half minus those of
// the lower half, which is what is computed here from row-mean prefix sums.
//
// A rule tilted by less than about (height/40)/width radians still fits in
// the upper half, so the response alone is flat across that range. Angles
// whose response is within plateauTolerance of the peak are therefore ranked
// by the sharpness of their row profile.
type Projection struct {
	params Params
}

// plateauTolerance is the relative response drop still counted as the peak.
const plateauTolerance = 0.05

// NewProjection returns a projection-response estimator.
func NewProjection(p Params) *Projection {
	return &Projection{params: p}
}

// Name implements Estimator.
func (e *Projection) Name() string { return StrategyProjection }

type projectionSample struct {
	angle     float64
	response  float64
	sharpness float64
}

// Estimate implements Estimator.
//
// Among the angles on the response peak the sharpest row profile wins; exact
// ties keep the first (lowest) angle. A page whose response is zero at every
// angle (e.g. blank paper) yields 0 with Confident false.
func (e *Projection) Estimate(img image.Image) (Result, error) {
	if err := e.params.Validate(); err != nil {
		return Result{}, err
	}
	work, _ := imaging.Downscale(img, e.params.WorkingSize)
	gray := imaging.Gray(work)

	kernelHeight := max(2, gray.Bounds().Dy()/20)

	var (
		samples []projectionSample
		peak    float64
	)
	for _, angle := range e.params.Candidates() {
		means := imaging.RowMeans(imaging.Gray(imaging.Rotate(gray, angle)))
		s := projectionSample{
			angle:     angle,
			response:  projectionResponse(means, kernelHeight),
			sharpness: profileSharpness(means),
		}
		samples = append(samples, s)
		peak = math.Max(peak, s.response)
	}
	if !(peak > 0) {
		return Result{Strategy: StrategyProjection}, nil
	}

	best := -1
	for i, s := range samples {
		if s.response < peak*(1-plateauTolerance) {
			continue
		}
		if best < 0 || s.sharpness > samples[best].sharpness {
			best = i
		}
	}
	return Result{
		Angle:     samples[best].angle,
		Confident: true,
		Score:     samples[best].response,
		Strategy:  StrategyProjection,
	}, nil
}

// profileSharpness returns the sum of squared deviations of the row means
// from their average. Rules concentrated in fewer rows score higher.
func profileSharpness(rowMeans []float64) float64 {
	if len(rowMeans) == 0 {
		return 0
	}
	var sum float64
	for _, m := range rowMeans {
		sum += m
	}
	avg := sum / float64(len(rowMeans))
	var ss float64
	for _, m := range rowMeans {
		ss += (m - avg) * (m - avg)
	}
	return ss
}

// projectionResponse slides the two-band kernel down the row profile and
// returns the maximum absolute response.
func projectionResponse(rowMeans []float64, kernelHeight int) float64 {
	if len(rowMeans) < kernelHeight {
		kernelHeight = len(rowMeans)
	}
	top := kernelHeight / 2
	if top == 0 {
		return 0
	}

	prefix := make([]float64, len(rowMeans)+1)
	for i, m := range rowMeans {
		prefix[i+1] = prefix[i] + m
	}

	var peak float64
	for y := 0; y+kernelHeight <= len(rowMeans); y++ {
		upper := prefix[y+top] - prefix[y]
		lower := prefix[y+kernelHeight] - prefix[y+top]
		if r := math.Abs(upper - lower); r > peak {
			peak = r
		}
	}
	return peak
}
