package stopwatch

import (
	"sync"
	"time"
)

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	// now is the current fake time.
	now time.Time
	// mu protects now.
	mu sync.Mutex
}

// newFakeClock returns a clock frozen at an arbitrary fixed instant.
func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Advance moves the clock forward by d.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// fakeTask is a repeating task registered with fakeScheduler.
type fakeTask struct {
	// period is the requested period.
	period time.Duration
	// fn is the task body.
	fn func()
	// canceled is set by Cancel.
	canceled bool
}

// Cancel marks the task as canceled.
func (t *fakeTask) Cancel() {
	t.canceled = true
}

// fakeScheduler records tasks and runs them only when Fire is called.
type fakeScheduler struct {
	// tasks holds every task ever scheduled, canceled ones included.
	tasks []*fakeTask
}

// Every registers a task.
func (s *fakeScheduler) Every(period time.Duration, fn func()) Handle {
	task := &fakeTask{period: period, fn: fn}
	s.tasks = append(s.tasks, task)

	return task
}

// Fire runs every task that has not been canceled.
func (s *fakeScheduler) Fire() {
	for _, task := range s.tasks {
		if !task.canceled {
			task.fn()
		}
	}
}

// Active counts tasks that have not been canceled.
func (s *fakeScheduler) Active() int {
	active := 0

	for _, task := range s.tasks {
		if !task.canceled {
			active++
		}
	}

	return active
}

// recorder is a Listener that keeps every snapshot it receives.
type recorder struct {
	// snapshots holds the received snapshots in order.
	snapshots []Snapshot
}

// Listen appends the snapshot.
func (r *recorder) Listen(s Snapshot) {
	r.snapshots = append(r.snapshots, s)
}

// Last returns the most recent snapshot.
func (r *recorder) Last() Snapshot {
	return r.snapshots[len(r.snapshots)-1]
}

// newTestEngine builds an engine on fake time.
func newTestEngine() (*Engine, *fakeClock, *fakeScheduler, *recorder) {
	var (
		clock     = newFakeClock()
		scheduler = new(fakeScheduler)
		rec       = new(recorder)
	)

	engine := New(
		WithClock(clock),
		WithScheduler(scheduler),
		WithListener(rec.Listen),
	)

	return engine, clock, scheduler, rec
}
