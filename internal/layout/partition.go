package layout

import (
	"fmt"
	"image"
)

// Params configures Partition.
type Params struct {
	// MarginThreshold is the vertical intensity step that marks a content edge.
	MarginThreshold float64

	// MarginPad widens the detected margins by this many pixels on each side.
	MarginPad int

	// BandThreshold is the row edge energy (0-255) that marks a band boundary.
	BandThreshold float64

	// MinBandGap is the minimum distance in rows between two boundaries.
	MinBandGap int

	// NumGrades is the number of grade columns.
	NumGrades int

	// NumQuestions is the expected number of question rows (0 = unknown).
	NumQuestions int
}

// DefaultParams returns the partitioning used when nothing is configured.
func DefaultParams() Params {
	return Params{
		MarginThreshold: 30,
		MarginPad:       10,
		BandThreshold:   50,
		MinBandGap:      20,
		NumGrades:       10,
		NumQuestions:    10,
	}
}

// Result is the layout of one page.
type Result struct {
	Margins    Margins  `json:"margins"`
	Vertical   []int    `json:"vertical"`
	Horizontal []int    `json:"horizontal"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Questions returns the number of question rows the horizontal boundaries
// describe. Row q lies between Horizontal[q] and Horizontal[q+1].
func (r Result) Questions() int {
	return max(len(r.Horizontal)-1, 0)
}

// Partition finds the margins, grade columns and question rows of g.
//
// A question row count other than NumQuestions is reported in Warnings and
// left as detected.
func Partition(g *image.Gray, p Params) (Result, error) {
	if g.Bounds().Dy() < 2 {
		return Result{}, fmt.Errorf("%w: height %d", ErrTooShort, g.Bounds().Dy())
	}

	m := FindMargins(g, p.MarginThreshold, p.MarginPad)
	vertical, err := Columns(m, p.NumGrades)
	if err != nil {
		return Result{}, fmt.Errorf("grade columns: %w", err)
	}

	res := Result{
		Margins:    m,
		Vertical:   vertical,
		Horizontal: Rows(g, m, p.BandThreshold, p.MinBandGap),
	}
	if p.NumQuestions > 0 && res.Questions() != p.NumQuestions {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"found %d horizontal boundaries (%d question rows), expected %d questions",
			len(res.Horizontal), res.Questions(), p.NumQuestions))
	}
	return res, nil
}
