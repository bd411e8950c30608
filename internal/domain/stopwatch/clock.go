package stopwatch

import (
	"sync"
	"time"
)

// Clock is the time source of the engine.
type Clock interface {
	Now() time.Time
}

// Handle cancels a repeating task started by a Scheduler.
// Cancel must not block waiting for a callback in flight, and calling it
// more than once is allowed.
type Handle interface {
	Cancel()
}

// Scheduler starts repeating tasks.
type Scheduler interface {
	Every(period time.Duration, fn func()) Handle
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock. The returned values carry a monotonic
// reading, so subtraction is not affected by wall clock adjustments.
//
//nolint:gochecknoglobals // Stateless default shared by every engine.
var SystemClock Clock = ClockFunc(time.Now)

// TickerScheduler runs each task on its own goroutine driven by a time.Ticker.
type TickerScheduler struct{}

// Every starts calling fn every period until the returned handle is canceled.
func (TickerScheduler) Every(period time.Duration, fn func()) Handle {
	h := &tickerHandle{
		done: make(chan struct{}),
	}

	ticker := time.NewTicker(period)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				// A tick and a cancel can be ready together; cancel wins.
				select {
				case <-h.done:
					return
				default:
				}

				fn()
			}
		}
	}()

	return h
}

// tickerHandle stops the goroutine started by TickerScheduler.Every.
type tickerHandle struct {
	// done is closed on cancel.
	done chan struct{}
	// once guards the close of done.
	once sync.Once
}

// Cancel signals the ticker goroutine to exit. It does not wait for it.
func (h *tickerHandle) Cancel() {
	h.once.Do(func() {
		close(h.done)
	})
}
