package pipeline

import (
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/omr-grader/internal/config"
	"github.com/ironsheep/omr-grader/internal/imaging"
)

// createGray returns a width x height grayscale page filled with value.
func createGray(width, height int, value uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(g, g.Bounds(), image.NewUniform(color.Gray{Y: value}), image.Point{}, draw.Src)
	return g
}

// fillGray paints r on g with value.
func fillGray(g *image.Gray, r image.Rectangle, value uint8) {
	draw.Draw(g, r, image.NewUniform(color.Gray{Y: value}), image.Point{}, draw.Src)
}

// answerSheet draws a straight 300x320 sheet with two content edges and one
// rule splitting the content into two question rows.
func answerSheet() *image.Gray {
	g := createGray(300, 320, 255)
	fillGray(g, image.Rect(40, 10, 42, 310), 0)
	fillGray(g, image.Rect(258, 10, 260, 310), 0)
	fillGray(g, image.Rect(40, 160, 260, 162), 0)
	return g
}

// ruledGrid draws a straight 420x320 sheet with content edges at x=20 and
// x=398 and rules at y=110 and y=205, giving three question rows. With four
// grades the columns start at 10, 109, 208 and 307. When markRow and
// markGrade are positive (1-based) that cell is inked.
func ruledGrid(markRow, markGrade int) *image.Gray {
	g := createGray(420, 320, 255)
	fillGray(g, image.Rect(20, 5, 22, 315), 0)
	fillGray(g, image.Rect(398, 5, 400, 315), 0)
	for _, y := range []int{110, 205} {
		fillGray(g, image.Rect(20, y, 400, y+2), 0)
	}
	if markRow > 0 && markGrade > 0 {
		spans := [][2]int{{6, 104}, {116, 200}, {212, 314}}
		left := 10 + (markGrade-1)*99
		span := spans[markRow-1]
		fillGray(g, image.Rect(left+12, span[0], left+92, span[1]), 0)
	}
	return g
}

// testConfig returns a small-grid configuration rooted in a temp directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Skew.AngleRange = 1
	cfg.Skew.AngleStep = 0.5
	cfg.Layout.HorizontalBandThreshold = 150
	cfg.Questions.NumGrades = 3
	cfg.Questions.NumQuestions = 2
	cfg.Pipeline.Concurrency = 2
	cfg.Paths.RawDir = filepath.Join(dir, "raw")
	cfg.Paths.InputDir = filepath.Join(dir, "cropped")
	cfg.Paths.OutputDir = filepath.Join(dir, "aligned")
	cfg.Paths.DebugDir = filepath.Join(dir, "debug")
	cfg.Paths.Registry = filepath.Join(dir, "aligned", "detected_grade_bands.json")
	return cfg
}

// writePage saves img as dir/name.
func writePage(t *testing.T, img image.Image, dir, name string) {
	t.Helper()
	require.NoError(t, imaging.Save(img, filepath.Join(dir, name)))
}
