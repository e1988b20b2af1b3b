package skew

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDocAngleImage_PacksRows(t *testing.T) {
	// A sub-image has a stride wider than its width.
	parent := image.NewGray(image.Rect(0, 0, 8, 4))
	for i := range parent.Pix {
		parent.Pix[i] = uint8(i)
	}
	sub := parent.SubImage(image.Rect(2, 1, 5, 3)).(*image.Gray)

	packed := toDocAngleImage(sub)

	require.Equal(t, 3, packed.Width)
	require.Equal(t, 2, packed.Height)
	assert.Equal(t, []byte{10, 11, 12, 18, 19, 20}, packed.Pixels)
}

func TestWhiteLines_StaysInRange(t *testing.T) {
	page := ruledPage(400, 200, []int{40, 80, 120, 160})
	p := Params{AngleRange: 4, AngleStep: 0.5}

	res, err := NewWhiteLines(p).Estimate(page)
	require.NoError(t, err)
	assert.Equal(t, StrategyWhiteLines, res.Strategy)
	assert.GreaterOrEqual(t, res.Angle, -p.AngleRange)
	assert.LessOrEqual(t, res.Angle, p.AngleRange)
}

func TestWhiteLines_BlankPage(t *testing.T) {
	p := Params{AngleRange: 4, AngleStep: 0.5}

	res, err := NewWhiteLines(p).Estimate(createTestImage(400, 200, color.White))
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Angle)
	assert.False(t, res.Confident)
	assert.Zero(t, res.Score)
	assert.Equal(t, StrategyWhiteLines, res.Strategy)
}

func TestWhiteLines_StraightPageScores(t *testing.T) {
	// docangle needs interrupted content: a scan line along an unbroken rule
	// has no transitions and counts as white paper. Two dashes per row act
	// like a line of text.
	page := createTestImage(400, 200, color.White)
	for _, y := range []int{40, 80, 120, 160} {
		for _, x := range []int{100, 220} {
			draw.Draw(page, image.Rect(x, y, x+80, y+2), image.NewUniform(color.Black), image.Point{}, draw.Src)
		}
	}
	p := Params{AngleRange: 4, AngleStep: 0.25}

	res, err := NewWhiteLines(p).Estimate(page)
	require.NoError(t, err)

	assert.True(t, res.Confident)
	assert.Greater(t, res.Score, 0.0)
	assert.LessOrEqual(t, res.Score, 1.0)
	assert.InDelta(t, 0, res.Angle, p.AngleStep)
}
