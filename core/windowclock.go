package core

// WindowClock derives the current auction window from the external
// monotonic counter. It holds no state of its own; windows advance solely
// because the counter advances.
type WindowClock struct {
	counter    CounterSource
	windowSize uint64
}

// NewWindowClock builds a clock over counter. A windowSize of 0 selects
// DefaultWindowSize.
func NewWindowClock(counter CounterSource, windowSize uint64) *WindowClock {
	if windowSize == 0 {
		windowSize = DefaultWindowSize
	}
	return &WindowClock{counter: counter, windowSize: windowSize}
}

// CurrentWindow returns counter / windowSize.
func (c *WindowClock) CurrentWindow() uint64 {
	return c.counter.Current() / c.windowSize
}

// BlocksRemaining returns how many counter ticks are left before the
// current window closes. It is always in [1, windowSize].
func (c *WindowClock) BlocksRemaining() uint64 {
	return c.windowSize - c.counter.Current()%c.windowSize
}

// WindowSize returns the fixed window length in counter ticks.
func (c *WindowClock) WindowSize() uint64 {
	return c.windowSize
}
