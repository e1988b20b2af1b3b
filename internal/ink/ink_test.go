package ink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	d, err := New(ModeGrid, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, ModeGrid, d.Name())

	d, err = New("", DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, ModeGrid, d.Name())

	d, err = New(ModeWindow, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, ModeWindow, d.Name())

	_, err = New("template", DefaultParams())
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestParams_Validate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	p := DefaultParams()
	p.InkThreshold = 0
	p.CellWidth = 0
	p.OverlapThreshold = 1.5
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ink threshold")
	assert.Contains(t, err.Error(), "cell size")
	assert.Contains(t, err.Error(), "overlap threshold")

	_, err = New(ModeGrid, p)
	assert.Error(t, err)
}
