package cpu

import (
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

// nopLoop is a ROM that jumps to itself.
var nopLoop = []uint16{0x1200}

func TestDelayTimerPerStepNeverNegative(t *testing.T) {
	for n := 5; n <= 300; n += 37 {
		c := newTestCPU(nopLoop...)
		c.timers.delay = 5
		c.timers.sound = 3
		mustStep(t, c, n)
		assert.Equal(t, byte(0), c.DelayTimer())
		assert.Equal(t, byte(0), c.SoundTimer())
		assert.False(t, c.SoundActive())
	}
}

func TestDelayTimerPerStepCountsDown(t *testing.T) {
	c := newTestCPU(nopLoop...)
	c.timers.delay = 5
	mustStep(t, c, 3)
	assert.Equal(t, byte(2), c.DelayTimer())
}

func TestClockedTimersIgnoreStepRate(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := NewCPU(WithTimerMode(TimerClocked), WithClock(clock))
	loadWords(t, c, nopLoop...)
	c.timers.delay = 10
	c.timers.sound = 2

	// The first step only anchors the clock.
	mustStep(t, c, 1)
	assert.Equal(t, byte(10), c.DelayTimer())

	// Many steps inside one period change nothing.
	mustStep(t, c, 500)
	assert.Equal(t, byte(10), c.DelayTimer())

	clock.advance(timerPeriod)
	mustStep(t, c, 1)
	assert.Equal(t, byte(9), c.DelayTimer())
	assert.Equal(t, byte(1), c.SoundTimer())

	clock.advance(3*timerPeriod + timerPeriod/2)
	mustStep(t, c, 1)
	assert.Equal(t, byte(6), c.DelayTimer())
	assert.Equal(t, byte(0), c.SoundTimer())

	// The half period left over carries into the next tick.
	clock.advance(timerPeriod / 2)
	mustStep(t, c, 1)
	assert.Equal(t, byte(5), c.DelayTimer())
}

func TestClockedTimersSaturate(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := NewCPU(WithTimerMode(TimerClocked), WithClock(clock))
	loadWords(t, c, nopLoop...)
	c.timers.delay = 3
	mustStep(t, c, 1)

	clock.advance(time.Hour)
	mustStep(t, c, 1)
	assert.Equal(t, byte(0), c.DelayTimer())
}

func TestTimerModeString(t *testing.T) {
	assert.Equal(t, "step", TimerPerStep.String())
	assert.Equal(t, "clock", TimerClocked.String())
}
