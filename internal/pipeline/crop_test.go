package pipeline

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/omr-grader/internal/imaging"
)

func TestCrop_NumbersPagesInOrder(t *testing.T) {
	cfg := testConfig(t)
	cfg.Crop.RectWidth = 100
	cfg.Crop.RectHeight = 80
	writePage(t, createGray(200, 160, 255), cfg.Paths.RawDir, "scan_b.png")
	writePage(t, createGray(200, 160, 0), cfg.Paths.RawDir, "scan_a.png")

	var out bytes.Buffer
	p, err := New(cfg, nil, WithOutput(&out))
	require.NoError(t, err)

	s, err := p.Crop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Processed)

	first, err := imaging.Open(filepath.Join(cfg.Paths.InputDir, "questionnaire_1.png"))
	require.NoError(t, err)
	assert.Equal(t, 100, first.Bounds().Dx())
	assert.Equal(t, 80, first.Bounds().Dy())

	// scan_a sorts first and is black.
	mean, ok := imaging.MeanIntensity(imaging.Gray(first), first.Bounds())
	require.True(t, ok)
	assert.Less(t, mean, 10.0)

	assert.FileExists(t, filepath.Join(cfg.Paths.InputDir, "questionnaire_2.png"))
	assert.FileExists(t, filepath.Join(cfg.Paths.DebugDir, "debug_questionnaire_1.png"))
	assert.Contains(t, out.String(), "crop completed: 2 processed")
}

func TestCrop_NoDebugCopies(t *testing.T) {
	cfg := testConfig(t)
	cfg.Crop.Debug = false
	writePage(t, createGray(700, 900, 255), cfg.Paths.RawDir, "scan.png")

	p, err := New(cfg, nil)
	require.NoError(t, err)
	_, err = p.Crop(context.Background())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(cfg.Paths.InputDir, "questionnaire_1.png"))
	assert.NoFileExists(t, filepath.Join(cfg.Paths.DebugDir, "debug_questionnaire_1.png"))
}
