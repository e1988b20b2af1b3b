package layout

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/omr-grader/internal/imaging"
)

// Canny thresholds used to find question separators.
const (
	rowCannyLow  = 50
	rowCannyHigh = 150
)

var (
	// ErrInvalidGrades is returned when fewer than one grade column is requested.
	ErrInvalidGrades = errors.New("number of grades must be at least 1")

	// ErrTooNarrow is returned when the content region has fewer pixels than
	// grade columns.
	ErrTooNarrow = errors.New("content region narrower than the number of grades")

	// ErrTooShort is returned for pages less than two pixels high.
	ErrTooShort = errors.New("page too short to partition")
)

// Columns splits the content region into numGrades equal bands.
//
// The result has numGrades+1 strictly increasing boundaries: Left,
// Left+step, ... and finally Right, where step = (Right-Left)/numGrades.
// The last band absorbs the division remainder.
func Columns(m Margins, numGrades int) ([]int, error) {
	if numGrades < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGrades, numGrades)
	}
	width := m.Width()
	if width < numGrades {
		return nil, fmt.Errorf("%w: %d px for %d grades", ErrTooNarrow, width, numGrades)
	}

	step := width / numGrades
	bands := make([]int, numGrades+1)
	for i := 0; i < numGrades; i++ {
		bands[i] = m.Left + i*step
	}
	bands[numGrades] = m.Right
	return bands, nil
}

// Rows finds the horizontal band boundaries of the content region.
//
// Edges are detected on columns [m.Left, m.Right) and each row's energy is
// 255 * edgePixels / contentWidth. Rows 1..height-2 are scanned top to bottom
// and a row becomes a boundary when its energy exceeds threshold and it lies
// at least minGap rows below the previous boundary. The sequence always
// starts at 0 and ends at height-1. When height-1 falls closer than minGap
// to the last interior boundary, that boundary is moved to height-1 so no two
// consecutive boundaries are closer than minGap.
//
// A page shorter than minGap yields just [0, height-1]. Pages less than two
// rows high return nil.
func Rows(g *image.Gray, m Margins, threshold float64, minGap int) []int {
	h := g.Bounds().Dy()
	if h < 2 {
		return nil
	}

	energy := make([]float64, h)
	if m.Right > m.Left {
		b := g.Bounds()
		content := g.SubImage(image.Rect(b.Min.X+m.Left, b.Min.Y, b.Min.X+m.Right, b.Max.Y)).(*image.Gray)
		edges := imaging.Canny(content, rowCannyLow, rowCannyHigh)
		energy = imaging.RowEdgeEnergy(edges, 0, edges.Bounds().Dx())
	}

	bands := []int{0}
	last := 0
	for y := 1; y < h-1; y++ {
		if energy[y] > threshold && y-last >= minGap {
			bands = append(bands, y)
			last = y
		}
	}

	end := h - 1
	if len(bands) > 1 && end-last < minGap {
		bands[len(bands)-1] = end
	} else {
		bands = append(bands, end)
	}
	return bands
}
