package main

import (
	"strings"
	"testing"

	"gochip8/pkg/cpu"

	"github.com/retroenv/retrogolib/assert"
)

func TestRenderHalfBlocksBlank(t *testing.T) {
	var fb cpu.Framebuffer
	lines := strings.Split(strings.TrimSuffix(renderHalfBlocks(&fb), "\n"), "\n")
	assert.Equal(t, cpu.DisplayHeight/2, len(lines))
	for _, line := range lines {
		assert.Equal(t, strings.Repeat(" ", cpu.DisplayWidth), line)
	}
}

func TestRenderHalfBlocksPairsRows(t *testing.T) {
	var fb cpu.Framebuffer
	fb[0] = true                  // (0, 0) top
	fb[cpu.DisplayWidth+1] = true // (1, 1) bottom
	fb[2] = true                  // (2, 0) top
	fb[cpu.DisplayWidth+2] = true // (2, 1) bottom
	fb[len(fb)-1] = true          // (63, 31) bottom

	lines := strings.Split(renderHalfBlocks(&fb), "\n")
	first := []rune(lines[0])
	assert.Equal(t, '▀', first[0])
	assert.Equal(t, '▄', first[1])
	assert.Equal(t, '█', first[2])
	assert.Equal(t, ' ', first[3])

	last := []rune(lines[cpu.DisplayHeight/2-1])
	assert.Equal(t, '▄', last[cpu.DisplayWidth-1])
}
