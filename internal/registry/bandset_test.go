package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandSet_Validate(t *testing.T) {
	tests := []struct {
		name    string
		b       BandSet
		wantErr bool
	}{
		{"valid", BandSet{Vertical: []int{10, 20, 30}, Horizontal: []int{0, 40, 80, 99}}, false},
		{"degenerate rows", BandSet{Vertical: []int{0, 5}, Horizontal: []int{0, 9}}, false},
		{"one vertical", BandSet{Vertical: []int{10}, Horizontal: []int{0, 99}}, true},
		{"one horizontal", BandSet{Vertical: []int{10, 20}, Horizontal: []int{0}}, true},
		{"rows not from zero", BandSet{Vertical: []int{10, 20}, Horizontal: []int{3, 99}}, true},
		{"vertical repeats", BandSet{Vertical: []int{10, 20, 20}, Horizontal: []int{0, 99}}, true},
		{"horizontal decreases", BandSet{Vertical: []int{10, 20}, Horizontal: []int{0, 50, 40}}, true},
		{"negative column", BandSet{Vertical: []int{-1, 20}, Horizontal: []int{0, 99}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBands)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBandSet_Counts(t *testing.T) {
	b := BandSet{Vertical: []int{0, 10, 20, 30}, Horizontal: []int{0, 10, 20, 30, 40}}
	assert.Equal(t, 3, b.Grades())
	assert.Equal(t, 4, b.Questions())
	assert.Equal(t, 0, BandSet{}.Grades())
	assert.Equal(t, 0, BandSet{}.Questions())
	assert.Equal(t, 1, BandSet{Horizontal: []int{0, 99}}.Questions())
}

func TestBandSet_Clone(t *testing.T) {
	b := BandSet{Vertical: []int{1, 2}, Horizontal: []int{0, 5}}
	c := b.Clone()
	c.Vertical[0] = 99
	assert.Equal(t, 1, b.Vertical[0])
}
