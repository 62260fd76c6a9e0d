package application

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default dispatch countdown shape: ten seconds of "finding your driver" in
// one-second ticks.
const (
	DefaultDispatchDuration = 10 * time.Second
	DefaultDispatchTick     = time.Second
)

// DispatchSimulator runs the fixed-duration countdown that stands in for real
// driver matching. It is deliberately a stub collaborator boundary: a future
// dispatch subsystem replaces it without touching the state machine.
type DispatchSimulator struct {
	duration time.Duration
	tick     time.Duration
	logger   *zap.Logger
}

// NewDispatchSimulator creates a simulator with the given countdown duration
// and tick interval.
func NewDispatchSimulator(duration, tick time.Duration, logger *zap.Logger) *DispatchSimulator {
	return &DispatchSimulator{duration: duration, tick: tick, logger: logger}
}

// Start begins a countdown and returns its handle. onFound is invoked exactly
// once when the countdown reaches zero, and never after Cancel. The remaining
// time derives from a fixed deadline, so ticks do not drift-accumulate no
// matter how often observers poll or re-render.
func (s *DispatchSimulator) Start(onFound func()) *DispatchCountdown {
	c := &DispatchCountdown{
		deadline: time.Now().Add(s.duration),
		stop:     make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				if c.Remaining() > 0 {
					continue
				}
				if c.finish() {
					s.logger.Info("dispatch countdown complete, driver found")
					onFound()
				}
				return
			}
		}
	}()

	return c
}

const (
	countdownRunning = iota
	countdownCancelled
	countdownDone
)

// DispatchCountdown is a single running countdown cycle.
type DispatchCountdown struct {
	deadline time.Time
	mu       sync.Mutex
	state    int
	stop     chan struct{}
}

// Remaining returns the whole seconds left before the driver is found, never
// negative.
func (c *DispatchCountdown) Remaining() int {
	left := time.Until(c.deadline)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

// Cancel stops the countdown. A countdown cancelled before reaching zero
// never emits its completion event.
func (c *DispatchCountdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != countdownRunning {
		return
	}
	c.state = countdownCancelled
	close(c.stop)
}

// finish flips the countdown to done, reporting whether this call won the
// right to emit the completion event.
func (c *DispatchCountdown) finish() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != countdownRunning {
		return false
	}
	c.state = countdownDone
	return true
}
