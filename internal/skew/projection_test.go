package skew

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/omr-grader/internal/imaging"
)

var searchWindow = Params{AngleRange: 10, AngleStep: 1}

func TestProjection_RecoversRotation(t *testing.T) {
	page := ruledPage(400, 200, []int{40, 80, 120, 160})
	skewed := imaging.Rotate(page, 7)

	res, err := NewProjection(searchWindow).Estimate(skewed)
	require.NoError(t, err)

	assert.True(t, res.Confident)
	assert.Equal(t, StrategyProjection, res.Strategy)
	assert.InDelta(t, -7, res.Angle, searchWindow.AngleStep, "a page rotated +7 degrees needs a -7 degree correction")
}

func TestProjection_RecoversRotationFineStep(t *testing.T) {
	// The kernel half-height (10 rows) spans about 1.2 degrees of tilt over
	// these rules, wider than either step.
	page := ruledPage(600, 400, []int{80, 160, 240, 320})
	skewed := imaging.Rotate(page, 7)

	for _, step := range []float64{0.5, 0.25} {
		p := Params{AngleRange: 10, AngleStep: step}
		res, err := NewProjection(p).Estimate(skewed)
		require.NoError(t, err)

		assert.True(t, res.Confident, "step %v", step)
		assert.InDelta(t, -7, res.Angle, step, "step %v", step)
	}
}

func TestProfileSharpness(t *testing.T) {
	// The same ink spread over more rows is less sharp.
	narrow := []float64{255, 255, 55, 55, 255, 255}
	wide := []float64{255, 155, 155, 155, 155, 255}

	assert.Greater(t, profileSharpness(narrow), profileSharpness(wide))
	assert.Equal(t, 0.0, profileSharpness([]float64{200, 200, 200}))
	assert.Equal(t, 0.0, profileSharpness(nil))
}

func TestProjection_StraightPage(t *testing.T) {
	page := ruledPage(400, 200, []int{40, 80, 120, 160})

	res, err := NewProjection(searchWindow).Estimate(page)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Angle)
}

func TestProjection_Converges(t *testing.T) {
	page := ruledPage(400, 200, []int{40, 80, 120, 160})
	skewed := imaging.Rotate(page, 7)
	est := NewProjection(searchWindow)

	first, err := est.Estimate(skewed)
	require.NoError(t, err)

	corrected := imaging.Rotate(skewed, first.Angle)
	second, err := est.Estimate(corrected)
	require.NoError(t, err)

	assert.Less(t, math.Abs(second.Angle), math.Abs(first.Angle))
	assert.LessOrEqual(t, math.Abs(second.Angle), searchWindow.AngleStep)
}

func TestProjection_StaysInRange(t *testing.T) {
	page := ruledPage(300, 160, []int{30, 70, 110})
	p := Params{AngleRange: 3, AngleStep: 0.5}

	for _, angle := range []float64{-12, -2, 0, 2, 12} {
		res, err := NewProjection(p).Estimate(imaging.Rotate(page, angle))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Angle, -p.AngleRange, "rotated %v", angle)
		assert.LessOrEqual(t, res.Angle, p.AngleRange, "rotated %v", angle)
	}
}

func TestProjection_BlankPage(t *testing.T) {
	res, err := NewProjection(searchWindow).Estimate(createTestImage(200, 100, color.White))
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Angle)
	assert.False(t, res.Confident)
}

func TestProjection_WorkingSize(t *testing.T) {
	page := ruledPage(800, 400, []int{80, 160, 240, 320})
	skewed := imaging.Rotate(page, -5)

	p := searchWindow
	p.WorkingSize = 400
	res, err := NewProjection(p).Estimate(skewed)
	require.NoError(t, err)
	assert.InDelta(t, 5, res.Angle, p.AngleStep)
}

func TestProjectionResponse(t *testing.T) {
	// A single dark row between bright rows.
	profile := []float64{255, 255, 255, 255, 0, 0, 255, 255, 255, 255}

	got := projectionResponse(profile, 4)
	// Best window: two bright rows above minus two dark rows below.
	assert.Equal(t, 510.0, got)

	assert.Equal(t, 0.0, projectionResponse([]float64{128, 128, 128, 128}, 2))
	assert.Equal(t, 0.0, projectionResponse([]float64{10}, 2))
}
