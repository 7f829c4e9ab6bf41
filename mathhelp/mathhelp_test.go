package mathhelp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(5, 0, 10))
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 10, Clamp(11, 0, 10))
	assert.Equal(t, 85.0, Clamp(89.0, -85, 85))
}

func TestEuclidianMod(t *testing.T) {
	tests := []struct {
		d, m, want float64
	}{
		{d: 7, m: 3, want: 1},
		{d: -7, m: 3, want: 2},
		{d: 7, m: -3, want: -2},
		{d: -7, m: -3, want: -1},
		{d: 6, m: 3, want: 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v mod %v", tt.d, tt.m), func(t *testing.T) {
			assert.Equal(t, tt.want, EuclidianMod(tt.d, tt.m))
		})
	}
}

func TestWrapLongitude(t *testing.T) {
	tests := map[float64]float64{
		0:    0,
		179:  179,
		180:  180,
		-180: -180,
		190:  -170,
		-190: 170,
		540:  -180,
		725:  5,
	}
	for lng, want := range tests {
		t.Run(fmt.Sprint(lng), func(t *testing.T) {
			assert.InDelta(t, want, WrapLongitude(lng), 1e-12)
		})
	}
}

func TestBool2Float(t *testing.T) {
	assert.Equal(t, 1.0, Bool2Float(true))
	assert.Equal(t, 0.0, Bool2Float(false))
}
