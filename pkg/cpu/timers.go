package cpu

import "time"

// TimerFrequency is the rate in Hz at which the delay and sound timers count down.
const TimerFrequency = 60

const timerPeriod = time.Second / TimerFrequency

// TimerMode selects what drives the delay and sound timers.
type TimerMode int

const (
	// TimerPerStep decrements both timers once per executed instruction. This
	// couples timer speed to instruction throughput.
	TimerPerStep TimerMode = iota
	// TimerClocked decrements both timers at TimerFrequency measured on the
	// CPU's Clock, however often Step is called.
	TimerClocked
)

func (m TimerMode) String() string {
	switch m {
	case TimerPerStep:
		return "step"
	case TimerClocked:
		return "clock"
	default:
		return "unknown"
	}
}

// Clock supplies the time base for TimerClocked.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type timers struct {
	delay byte
	sound byte

	mode  TimerMode
	clock Clock
	last  time.Time
}

func (t *timers) reset() {
	t.delay = 0
	t.sound = 0
	t.last = time.Time{}
}

// tick is called once after every executed instruction.
func (t *timers) tick() {
	if t.mode == TimerPerStep {
		t.decrement(1)
		return
	}

	now := t.clock.Now()
	if t.last.IsZero() {
		t.last = now
		return
	}
	ticks := now.Sub(t.last) / timerPeriod
	if ticks <= 0 {
		return
	}
	t.last = t.last.Add(ticks * timerPeriod)
	if ticks > 0xFF {
		ticks = 0xFF
	}
	t.decrement(byte(ticks))
}

func (t *timers) decrement(n byte) {
	t.delay = saturatingSub(t.delay, n)
	t.sound = saturatingSub(t.sound, n)
}

func saturatingSub(v, n byte) byte {
	if v < n {
		return 0
	}
	return v - n
}
