package grid

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestGetGridCoords(t *testing.T) {
	tests := []struct {
		index int
		cols  int
		wantX int
		wantY int
	}{
		// 64 cols (framebuffer width)
		{0, 64, 0, 0},
		{1, 64, 1, 0},
		{63, 64, 63, 0},
		{64, 64, 0, 1},
		{65, 64, 1, 1},
		{2047, 64, 63, 31},

		// 8 cols (one sprite row)
		{0, 8, 0, 0},
		{7, 8, 7, 0},
		{8, 8, 0, 1},
	}

	for _, tc := range tests {
		gotX, gotY := GetGridCoords(tc.index, tc.cols)
		if gotX != tc.wantX || gotY != tc.wantY {
			t.Errorf("GetGridCoords(%d, %d) = (%d, %d); want (%d, %d)", tc.index, tc.cols, gotX, gotY, tc.wantX, tc.wantY)
		}
	}
}

func TestIndexWraps(t *testing.T) {
	assert.Equal(t, 0, Index(0, 0, 64, 32))
	assert.Equal(t, 65, Index(1, 1, 64, 32))
	assert.Equal(t, 0, Index(64, 32, 64, 32))
	assert.Equal(t, 63, Index(-1, 0, 64, 32))
	assert.Equal(t, 31*64+3, Index(67, -1, 64, 32))
}

func TestIndexRoundTrip(t *testing.T) {
	for i := 0; i < 64*32; i++ {
		x, y := GetGridCoords(i, 64)
		assert.Equal(t, i, Index(x, y, 64, 32))
	}
}
