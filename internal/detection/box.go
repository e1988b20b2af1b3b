package detection

import "sort"

// Box is a scored axis-aligned rectangle covering [X, X+Width) × [Y, Y+Height).
type Box struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Score  float64 `json:"score"`
}

// Area returns Width × Height, or 0 for degenerate boxes.
func (b Box) Area() int {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// Center returns the centroid of the box.
func (b Box) Center() (float64, float64) {
	return float64(b.X) + float64(b.Width)/2, float64(b.Y) + float64(b.Height)/2
}

// IoU returns the intersection-over-union of two boxes, in [0, 1].
func IoU(a, b Box) float64 {
	iw := min(a.X+a.Width, b.X+b.Width) - max(a.X, b.X)
	ih := min(a.Y+a.Height, b.Y+b.Height) - max(a.Y, b.Y)
	if iw <= 0 || ih <= 0 {
		return 0
	}
	inter := iw * ih
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// SuppressOverlaps performs greedy non-maximum suppression and returns the
// indices of the kept boxes, highest score first.
//
// Boxes are visited in descending score order (ties keep input order). Each
// kept box discards every remaining box whose IoU with it exceeds
// overlapThreshold. Selection stops once maxDetections boxes are kept
// (maxDetections <= 0 means no limit).
func SuppressOverlaps(boxes []Box, overlapThreshold float64, maxDetections int) []int {
	order := make([]int, len(boxes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return boxes[order[i]].Score > boxes[order[j]].Score
	})

	keep := make([]int, 0)
	for len(order) > 0 {
		best := order[0]
		keep = append(keep, best)
		if maxDetections > 0 && len(keep) >= maxDetections {
			break
		}

		rest := order[:0]
		for _, idx := range order[1:] {
			if IoU(boxes[best], boxes[idx]) <= overlapThreshold {
				rest = append(rest, idx)
			}
		}
		order = rest
	}
	return keep
}
