package main

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrogolib/assert"

	"gochip8/pkg/config"
	"gochip8/pkg/cpu"
)

func TestGameWiring(t *testing.T) {
	vm := cpu.NewCPU()
	rom := []byte{0x12, 0x00}
	assert.NoError(t, vm.LoadProgram(rom))

	g := newGame(vm, config.CreateLogger(false, true), config.DefaultOptions(), rom, "loop.ch8")

	// Host key 1 is keypad 1, X is keypad 0, V is keypad F.
	assert.Equal(t, 0x1, g.keypad[0])
	assert.Equal(t, 0x0, g.keypad[13])
	assert.Equal(t, 0xF, g.keypad[15])

	seen := map[int]bool{}
	for _, idx := range g.keypad {
		seen[idx] = true
	}
	assert.Equal(t, 16, len(seen))

	w, h := g.Layout(0, 0)
	assert.Equal(t, cpu.DisplayWidth*layoutScale, w)
	assert.Equal(t, cpu.DisplayHeight*layoutScale, h)
}

func TestSyncKeypadFollowsKeyLevel(t *testing.T) {
	vm := cpu.NewCPU()
	rom := []byte{0x12, 0x00}
	assert.NoError(t, vm.LoadProgram(rom))
	g := newGame(vm, config.CreateLogger(false, true), config.DefaultOptions(), rom, "loop.ch8")

	held := map[ebiten.Key]bool{ebiten.KeyW: true}
	pressed := func(k ebiten.Key) bool { return held[k] }

	g.syncKeypad(pressed)
	assert.True(t, vm.IsKeyDown(0x5))
	assert.False(t, vm.IsKeyDown(0x4))

	// A reload clears the keypad; the next frame restores held keys.
	assert.NoError(t, vm.LoadProgram(rom))
	assert.False(t, vm.IsKeyDown(0x5))
	g.syncKeypad(pressed)
	assert.True(t, vm.IsKeyDown(0x5))

	held[ebiten.KeyW] = false
	g.syncKeypad(pressed)
	assert.False(t, vm.IsKeyDown(0x5))
}
