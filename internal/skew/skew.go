package skew

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// Strategy names accepted by New.
const (
	StrategyProjection = "projection"
	StrategyHough      = "hough"
	StrategyWhiteLines = "whitelines"
)

// ErrUnknownStrategy is returned by New for an unrecognised strategy name.
var ErrUnknownStrategy = errors.New("unknown skew strategy")

// Params configures the angle search shared by all strategies.
type Params struct {
	// AngleRange bounds the search to [-AngleRange, +AngleRange] degrees.
	AngleRange float64

	// AngleStep is the search resolution in degrees.
	AngleStep float64

	// WorkingSize downsamples the page so its longest side is at most this
	// many pixels before searching (0 = full resolution).
	WorkingSize int

	// HoughThreshold is the minimum vote count of a line (hough strategy only).
	HoughThreshold int
}

// DefaultParams returns the search window used when nothing is configured.
func DefaultParams() Params {
	return Params{
		AngleRange:     20,
		AngleStep:      0.1,
		WorkingSize:    1000,
		HoughThreshold: 100,
	}
}

// Validate checks that the search window is usable.
func (p Params) Validate() error {
	if p.AngleRange < 0 || math.IsNaN(p.AngleRange) || math.IsInf(p.AngleRange, 0) {
		return fmt.Errorf("angle range must be a finite value >= 0, got %v", p.AngleRange)
	}
	if !(p.AngleStep > 0) || math.IsInf(p.AngleStep, 0) {
		return fmt.Errorf("angle step must be > 0, got %v", p.AngleStep)
	}
	return nil
}

// Candidates returns the angles -AngleRange, -AngleRange+AngleStep, ... up to
// +AngleRange in ascending order.
func (p Params) Candidates() []float64 {
	n := int(math.Floor(2*p.AngleRange/p.AngleStep + 1e-9))
	angles := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		a := -p.AngleRange + float64(i)*p.AngleStep
		angles = append(angles, math.Round(a*1e6)/1e6)
	}
	return angles
}

// clampAngle limits a to the search window.
func (p Params) clampAngle(a float64) float64 {
	return math.Max(-p.AngleRange, math.Min(p.AngleRange, a))
}

// Result is the outcome of a skew estimate.
type Result struct {
	// Angle is the correction in degrees, counter-clockwise positive.
	Angle float64 `json:"angle"`

	// Confident is false when the page gave no usable signal and Angle fell
	// back to 0.
	Confident bool `json:"confident"`

	// Score is the strategy-specific strength of the winning angle, such as
	// the peak kernel response for projection.
	Score float64 `json:"score"`

	// Strategy names the estimator that produced the result.
	Strategy string `json:"strategy"`
}

// Estimator computes the rotation that straightens a page.
type Estimator interface {
	Estimate(img image.Image) (Result, error)
	Name() string
}

// New returns the estimator registered under name.
func New(name string, p Params) (Estimator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	switch name {
	case StrategyProjection, "":
		return NewProjection(p), nil
	case StrategyHough:
		return NewLineVote(p), nil
	case StrategyWhiteLines:
		return NewWhiteLines(p), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
