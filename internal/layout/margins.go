package layout

import (
	"image"
	"math"

	"github.com/ironsheep/omr-grader/internal/imaging"
)

// Margins are the left and right pixel columns of the printed content.
// Both are inclusive column indices with 0 <= Left < Right <= width-1.
type Margins struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Width returns Right - Left.
func (m Margins) Width() int {
	return m.Right - m.Left
}

// FindMargins scans columns inward from both page edges and fixes each side
// at the first column whose largest vertical intensity step exceeds
// threshold. The scan covers x in [0, width/2) and stops once both sides are
// fixed. A side that never fires stays at the page edge.
//
// pad moves both margins outward (a negative pad moves them inward) and the
// result is clamped to the page. If a negative pad would make the margins
// cross, the unpadded margins are returned.
func FindMargins(g *image.Gray, threshold float64, pad int) Margins {
	w := g.Bounds().Dx()
	if w < 2 {
		return Margins{Left: 0, Right: max(w-1, 0)}
	}

	left, right := 0, w-1
	leftFixed, rightFixed := false, false
	for x := 0; x < w/2 && !(leftFixed && rightFixed); x++ {
		if !leftFixed && maxVerticalStep(g, x) > threshold {
			left = x
			leftFixed = true
		}
		if !rightFixed && maxVerticalStep(g, w-1-x) > threshold {
			right = w - 1 - x
			rightFixed = true
		}
	}

	padded := Margins{
		Left:  clamp(left-pad, 0, w-1),
		Right: clamp(right+pad, 0, w-1),
	}
	if padded.Left >= padded.Right {
		return Margins{Left: left, Right: right}
	}
	return padded
}

// maxVerticalStep returns the largest absolute difference between vertically
// adjacent pixels of column x.
func maxVerticalStep(g *image.Gray, x int) float64 {
	h := g.Bounds().Dy()
	var peak float64
	for y := 1; y < h; y++ {
		d := math.Abs(float64(imaging.Luma(g, x, y)) - float64(imaging.Luma(g, x, y-1)))
		if d > peak {
			peak = d
		}
	}
	return peak
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
