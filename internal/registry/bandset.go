package registry

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidBands is returned by BandSet.Validate.
var ErrInvalidBands = errors.New("invalid band set")

// BandSet holds the grid boundaries of one aligned page.
//
// Vertical are the grade column boundaries (numGrades+1 values). Horizontal
// are the row boundaries from 0 to height-1; question q spans
// Horizontal[q] to Horizontal[q+1].
type BandSet struct {
	Vertical   []int `json:"vertical"`
	Horizontal []int `json:"horizontal"`
}

// Grades returns the number of grade columns.
func (b BandSet) Grades() int {
	return max(len(b.Vertical)-1, 0)
}

// Questions returns the number of question rows the horizontal boundaries
// describe.
func (b BandSet) Questions() int {
	return max(len(b.Horizontal)-1, 0)
}

// Clone returns a deep copy of b.
func (b BandSet) Clone() BandSet {
	return BandSet{
		Vertical:   slices.Clone(b.Vertical),
		Horizontal: slices.Clone(b.Horizontal),
	}
}

// Validate checks that both boundary lists have at least two strictly
// increasing values and that the horizontal list starts at row 0.
func (b BandSet) Validate() error {
	if len(b.Vertical) < 2 {
		return fmt.Errorf("%w: %d vertical boundaries", ErrInvalidBands, len(b.Vertical))
	}
	if len(b.Horizontal) < 2 {
		return fmt.Errorf("%w: %d horizontal boundaries", ErrInvalidBands, len(b.Horizontal))
	}
	if b.Horizontal[0] != 0 {
		return fmt.Errorf("%w: horizontal boundaries start at %d", ErrInvalidBands, b.Horizontal[0])
	}
	if i := firstNonIncreasing(b.Vertical); i > 0 {
		return fmt.Errorf("%w: vertical boundary %d (%d) not after %d", ErrInvalidBands, i, b.Vertical[i], b.Vertical[i-1])
	}
	if i := firstNonIncreasing(b.Horizontal); i > 0 {
		return fmt.Errorf("%w: horizontal boundary %d (%d) not after %d", ErrInvalidBands, i, b.Horizontal[i], b.Horizontal[i-1])
	}
	if b.Vertical[0] < 0 {
		return fmt.Errorf("%w: negative vertical boundary %d", ErrInvalidBands, b.Vertical[0])
	}
	return nil
}

func firstNonIncreasing(values []int) int {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return i
		}
	}
	return -1
}
