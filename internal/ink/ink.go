package ink

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/omr-grader/internal/detection"
	"github.com/ironsheep/omr-grader/internal/registry"
)

// Detection modes accepted by New.
const (
	ModeGrid   = "grid"
	ModeWindow = "window"
)

// ErrUnknownMode is returned by New for an unrecognised detection mode.
var ErrUnknownMode = errors.New("unknown ink detection mode")

// Candidate is a region believed to hold an ink mark.
type Candidate struct {
	detection.Box

	// Row and Column are the 0-based question row and grade column of a
	// grid cell, or -1 for window candidates.
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Params configures ink detection.
type Params struct {
	// CellWidth and CellHeight size the sliding window (window mode).
	CellWidth  int
	CellHeight int

	// InkThreshold flags a region whose mean intensity is below it.
	InkThreshold float64

	// OverlapThreshold is the IoU above which window candidates suppress
	// each other.
	OverlapThreshold float64

	// MaxDetections caps the candidates kept by suppression (0 = no limit).
	MaxDetections int

	// RowTolerance is the vertical distance within which DedupeRows treats
	// two window candidates as the same row.
	RowTolerance int
}

// DefaultParams returns the detection settings used when nothing is configured.
func DefaultParams() Params {
	return Params{
		CellWidth:        30,
		CellHeight:       30,
		InkThreshold:     128,
		OverlapThreshold: 0.3,
		RowTolerance:     5,
	}
}

// Validate checks the parameters a detector depends on.
func (p Params) Validate() error {
	var errs []error
	if p.InkThreshold <= 0 || p.InkThreshold > 255 {
		errs = append(errs, fmt.Errorf("ink threshold must be in (0, 255], got %v", p.InkThreshold))
	}
	if p.CellWidth < 1 || p.CellHeight < 1 {
		errs = append(errs, fmt.Errorf("cell size must be positive, got %dx%d", p.CellWidth, p.CellHeight))
	}
	if p.OverlapThreshold < 0 || p.OverlapThreshold > 1 {
		errs = append(errs, fmt.Errorf("overlap threshold must be in [0, 1], got %v", p.OverlapThreshold))
	}
	if p.RowTolerance < 0 {
		errs = append(errs, fmt.Errorf("row tolerance must be >= 0, got %d", p.RowTolerance))
	}
	return errors.Join(errs...)
}

// Detector finds ink candidates on a straightened page using its band set.
type Detector interface {
	Detect(g *image.Gray, bands registry.BandSet) []Candidate
	Name() string
}

// New returns the detector for mode.
func New(mode string, p Params) (Detector, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	switch mode {
	case ModeGrid, "":
		return NewGridDetector(p), nil
	case ModeWindow:
		return NewWindowDetector(p), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
