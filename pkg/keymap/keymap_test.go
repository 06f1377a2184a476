package keymap

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestIndex(t *testing.T) {
	tests := []struct {
		key  rune
		want int
	}{
		{'1', 0x1},
		{'4', 0xC},
		{'q', 0x4},
		{'W', 0x5},
		{'r', 0xD},
		{'s', 0x8},
		{'f', 0xE},
		{'z', 0xA},
		{'x', 0x0},
		{'V', 0xF},
	}

	for _, tt := range tests {
		got, ok := Index(tt.key)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got)
	}
}

func TestIndexUnmapped(t *testing.T) {
	for _, r := range []rune{'5', 'p', ' ', 'ß'} {
		_, ok := Index(r)
		assert.False(t, ok)
	}
}

func TestRuneRoundTrip(t *testing.T) {
	for i := 0; i < 16; i++ {
		r := Rune(i)
		got, ok := Index(r)
		assert.True(t, ok)
		assert.Equal(t, i, got)
	}
	assert.Equal(t, rune(0), Rune(16))
	assert.Equal(t, rune(0), Rune(-1))
}
