package skew

import (
	"image"
	"sort"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/omr-grader/internal/detection"
	"github.com/ironsheep/omr-grader/internal/imaging"
)

// Canny thresholds for line voting. They are lower than the banding
// thresholds to pick up faint printed rules.
const (
	lineVoteCannyLow  = 30
	lineVoteCannyHigh = 100
)

// strongLineFraction keeps the lines with at least this share of the
// strongest line's votes. Weaker peaks cut diagonally across the dilated
// edges of a rule and pull the median away from its true angle.
const strongLineFraction = 0.9

// LineVote estimates skew as the median angle of the near-horizontal lines
// found by a Hough transform.
type LineVote struct {
	params Params
}

// NewLineVote returns a Hough line-vote estimator.
func NewLineVote(p Params) *LineVote {
	if p.HoughThreshold <= 0 {
		p.HoughThreshold = DefaultParams().HoughThreshold
	}
	return &LineVote{params: p}
}

// Name implements Estimator.
func (e *LineVote) Name() string { return StrategyHough }

// Estimate implements Estimator.
//
// The page is blurred, edge-detected and dilated by one pixel to bridge small
// gaps. Each detected line's normal angle theta becomes the signed angle
// theta-90; angles outside the window are discarded. The estimate is the
// median angle of the strong lines, those with at least strongLineFraction
// of the top vote count, and Score is their number. When no line survives
// the estimate is 0 with Confident false.
func (e *LineVote) Estimate(img image.Image) (Result, error) {
	if err := e.params.Validate(); err != nil {
		return Result{}, err
	}
	work, _ := imaging.Downscale(img, e.params.WorkingSize)

	blurred := imaging.Gray(blur.Gaussian(work, 1.0))
	edges := imaging.Canny(blurred, lineVoteCannyLow, lineVoteCannyHigh)
	dilated := imaging.Gray(effect.Dilate(edges, 1))

	lines := detection.HoughLines(dilated, detection.HoughParams{
		ThetaMin:  90 - e.params.AngleRange,
		ThetaMax:  90 + e.params.AngleRange,
		ThetaStep: e.params.AngleStep,
		Threshold: e.params.HoughThreshold,
	})

	angles := strongAngles(lines, e.params.AngleRange)
	if len(angles) == 0 {
		return Result{Strategy: StrategyHough}, nil
	}

	return Result{
		Angle:     e.params.clampAngle(median(angles)),
		Confident: true,
		Score:     float64(len(angles)),
		Strategy:  StrategyHough,
	}, nil
}

// strongAngles returns the signed angles of the lines within the window whose
// votes reach strongLineFraction of the best line in the window. lines must be
// sorted by votes, strongest first, as detection.HoughLines returns them.
func strongAngles(lines []detection.HoughLine, angleRange float64) []float64 {
	var (
		angles []float64
		floor  float64
	)
	for _, l := range lines {
		a := l.ThetaDegrees - 90
		if a < -angleRange || a > angleRange {
			continue
		}
		if angles == nil {
			floor = strongLineFraction * float64(l.Votes)
		}
		if float64(l.Votes) < floor {
			break
		}
		angles = append(angles, a)
	}
	return angles
}

// median returns the median of values; the input is sorted in place.
func median(values []float64) float64 {
	sort.Float64s(values)
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
