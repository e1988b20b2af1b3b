package ink

import (
	"image"

	"github.com/ironsheep/omr-grader/internal/detection"
	"github.com/ironsheep/omr-grader/internal/imaging"
	"github.com/ironsheep/omr-grader/internal/registry"
)

// GridDetector flags band-grid cells darker than the ink threshold.
type GridDetector struct {
	params Params
}

// NewGridDetector returns a grid-cell detector.
func NewGridDetector(p Params) *GridDetector {
	return &GridDetector{params: p}
}

// Name implements Detector.
func (d *GridDetector) Name() string { return ModeGrid }

// Detect implements Detector.
//
// Question q spans rows [H[q], H[q+1]) and grade column c spans
// [V[c], V[c+1]). Cells falling outside the page are skipped. Candidates are
// returned in row-major order.
func (d *GridDetector) Detect(g *image.Gray, bands registry.BandSet) []Candidate {
	var out []Candidate
	for q := 0; q < bands.Questions(); q++ {
		top, bottom := bands.Horizontal[q], bands.Horizontal[q+1]
		for c := 0; c < bands.Grades(); c++ {
			left, right := bands.Vertical[c], bands.Vertical[c+1]
			cell := image.Rect(left, top, right, bottom)
			mean, ok := imaging.MeanIntensity(g, cell)
			if !ok || mean >= d.params.InkThreshold {
				continue
			}
			out = append(out, Candidate{
				Box: detection.Box{
					X:      cell.Min.X,
					Y:      cell.Min.Y,
					Width:  cell.Dx(),
					Height: cell.Dy(),
					Score:  255 - mean,
				},
				Row:    q,
				Column: c,
			})
		}
	}
	return out
}
