package ink

import (
	"image"
	"sort"

	"github.com/ironsheep/omr-grader/internal/detection"
	"github.com/ironsheep/omr-grader/internal/imaging"
	"github.com/ironsheep/omr-grader/internal/registry"
)

// WindowDetector slides a CellWidth x CellHeight window along every
// horizontal band boundary.
type WindowDetector struct {
	params Params
}

// NewWindowDetector returns a sliding-window detector.
func NewWindowDetector(p Params) *WindowDetector {
	return &WindowDetector{params: p}
}

// Name implements Detector.
func (d *WindowDetector) Name() string { return ModeWindow }

// Detect implements Detector.
//
// For each boundary y the window's top edge sits at y and its left edge
// steps from 0 by CellWidth/2 while x < width-CellWidth. Windows are clipped
// to the page when measured. Dark windows are thinned with
// detection.SuppressOverlaps and then reduced to one per row by DedupeRows,
// so the result is sorted top to bottom.
func (d *WindowDetector) Detect(g *image.Gray, bands registry.BandSet) []Candidate {
	return DedupeRows(d.Windows(g, bands), d.params.RowTolerance)
}

// Windows returns the dark windows that survive overlap suppression, highest
// score first.
func (d *WindowDetector) Windows(g *image.Gray, bands registry.BandSet) []Candidate {
	cw, ch := d.params.CellWidth, d.params.CellHeight
	stride := max(1, cw/2)
	width := g.Bounds().Dx()

	var flagged []Candidate
	for _, y := range bands.Horizontal {
		for x := 0; x < width-cw; x += stride {
			mean, ok := imaging.MeanIntensity(g, image.Rect(x, y, x+cw, y+ch))
			if !ok || mean >= d.params.InkThreshold {
				continue
			}
			flagged = append(flagged, Candidate{
				Box:    detection.Box{X: x, Y: y, Width: cw, Height: ch, Score: 255 - mean},
				Row:    -1,
				Column: -1,
			})
		}
	}

	boxes := make([]detection.Box, len(flagged))
	for i, c := range flagged {
		boxes[i] = c.Box
	}
	kept := detection.SuppressOverlaps(boxes, d.params.OverlapThreshold, d.params.MaxDetections)

	out := make([]Candidate, len(kept))
	for i, idx := range kept {
		out[i] = flagged[idx]
	}
	return out
}

// DedupeRows keeps at most one candidate per row.
//
// Candidates are sorted by Y, ties by X descending. A candidate is kept when
// its Y differs by more than tolerance from the candidate immediately before
// it in that order, kept or not. A run of candidates drifting a few pixels at
// a time therefore collapses into a single row even when its ends are far
// apart.
func DedupeRows(cands []Candidate, tolerance int) []Candidate {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X > sorted[j].X
	})

	out := make([]Candidate, 0, len(sorted))
	for i, c := range sorted {
		if i == 0 || abs(c.Y-sorted[i-1].Y) > tolerance {
			out = append(out, c)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
