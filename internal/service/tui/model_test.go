package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
	"github.com/oshokin/stopwatch/internal/service/hub"
)

var errOffline = errors.New("offline")

// stillScheduler never fires.
type stillScheduler struct{}

// Every returns a no-op handle.
func (stillScheduler) Every(time.Duration, func()) stopwatch.Handle {
	return stillHandle{}
}

type stillHandle struct{}

// Cancel does nothing.
func (stillHandle) Cancel() {}

// failingBackend rejects every command.
type failingBackend struct{}

func (failingBackend) Apply(context.Context, stopwatch.Command) (stopwatch.Snapshot, error) {
	return stopwatch.Snapshot{}, errOffline
}

// newLocalModel builds a model over an engine whose clock advances by step on every read.
func newLocalModel(t *testing.T, step time.Duration) (model, *hub.Subscription) {
	t.Helper()

	var (
		now     = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
		updates = hub.New()
		sub     = updates.Subscribe()
	)

	t.Cleanup(sub.Close)

	engine := stopwatch.New(
		stopwatch.WithClock(stopwatch.ClockFunc(func() time.Time {
			now = now.Add(step)

			return now
		})),
		stopwatch.WithScheduler(stillScheduler{}),
		stopwatch.WithListener(updates.Publish),
	)

	return newModel(context.Background(), localBackend{engine: engine}, sub.C(), "stopwatch"), sub
}

// press feeds a key to the model, runs the resulting command, if any, and
// then delivers the snapshot the command pushed, if any.
func press(t *testing.T, m model, updates <-chan stopwatch.Snapshot, key string) model {
	t.Helper()

	var msg tea.KeyMsg

	switch key {
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}

	next, cmd := m.Update(msg)
	m = next.(model) //nolint:forcetypeassert // Test code.

	if cmd != nil {
		next, _ = m.Update(cmd())
		m = next.(model) //nolint:forcetypeassert // Test code.
	}

	select {
	case snapshot, ok := <-updates:
		if ok {
			next, _ = m.Update(updateMsg(snapshot))
			m = next.(model) //nolint:forcetypeassert // Test code.
		}
	default:
	}

	return m
}

// TestModel_Keys drives the stopwatch with s, t and r.
func TestModel_Keys(t *testing.T) {
	t.Parallel()

	m, sub := newLocalModel(t, 100*time.Millisecond)
	require.Contains(t, m.View(), stopwatch.ZeroDisplay)
	require.Contains(t, m.View(), "stopped")

	m = press(t, m, sub.C(), "s")
	require.Equal(t, stopwatch.Running, m.snapshot.State)
	require.Contains(t, m.View(), "running")

	m = press(t, m, sub.C(), "t")
	require.Len(t, m.snapshot.Laps, 1)
	require.Contains(t, m.View(), "lap  1  "+m.snapshot.Laps[0])

	m = press(t, m, sub.C(), "s")
	require.Equal(t, stopwatch.Paused, m.snapshot.State)

	m = press(t, m, sub.C(), "x")
	require.Equal(t, stopwatch.Paused, m.snapshot.State)

	m = press(t, m, sub.C(), "r")
	require.Equal(t, stopwatch.StoppedAtZero, m.snapshot.State)
	require.Empty(t, m.snapshot.Laps)
	require.NotContains(t, m.View(), "lap  1")
}

// TestModel_Quit checks the quit keys end the program.
func TestModel_Quit(t *testing.T) {
	t.Parallel()

	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		m, _ := newLocalModel(t, time.Millisecond)

		_, cmd := m.Update(msg)
		require.NotNil(t, cmd, msg.String())
		require.Equal(t, tea.Quit(), cmd(), msg.String())
	}
}

// TestModel_Updates verifies pushed snapshots are shown and the wait is re-armed.
func TestModel_Updates(t *testing.T) {
	t.Parallel()

	updates := make(chan stopwatch.Snapshot, 1)
	m := newModel(context.Background(), failingBackend{}, updates, "")

	updates <- stopwatch.Snapshot{Display: "12:34", State: stopwatch.Running, Laps: []string{"05:00"}}

	msg := m.Init()()
	require.IsType(t, updateMsg{}, msg)

	next, cmd := m.Update(msg)
	m = next.(model) //nolint:forcetypeassert // Test code.

	require.NotNil(t, cmd)
	require.Contains(t, m.View(), "12:34")
	require.Contains(t, m.View(), "05:00")

	close(updates)
	require.Equal(t, updatesClosedMsg{}, cmd())
}

// TestModel_LateReplyKeepsDisplay ensures a command reply arriving after a newer push does not roll the display back.
func TestModel_LateReplyKeepsDisplay(t *testing.T) {
	t.Parallel()

	m := newModel(context.Background(), failingBackend{}, nil, "")

	next, _ := m.Update(updateMsg(stopwatch.Snapshot{Display: "00:50", State: stopwatch.Running}))
	m = next.(model) //nolint:forcetypeassert // Test code.

	next, _ = m.Update(appliedMsg{})
	m = next.(model) //nolint:forcetypeassert // Test code.

	require.Equal(t, "00:50", m.snapshot.Display)
	require.Equal(t, stopwatch.Running, m.snapshot.State)
}

// TestModel_CommandError shows backend failures until the next success.
func TestModel_CommandError(t *testing.T) {
	t.Parallel()

	m := newModel(context.Background(), failingBackend{}, nil, "")

	m = press(t, m, nil, "s")
	require.ErrorIs(t, m.err, errOffline)
	require.Contains(t, m.View(), "offline")

	next, _ := m.Update(appliedMsg{})
	m = next.(model) //nolint:forcetypeassert // Test code.

	require.NoError(t, m.err)
	require.NotContains(t, m.View(), "offline")
}

// TestModel_LapListIsBounded lists only the most recent laps, newest first.
func TestModel_LapListIsBounded(t *testing.T) {
	t.Parallel()

	laps := make([]string, 0, maxVisibleLaps+2)
	for i := range maxVisibleLaps + 2 {
		laps = append(laps, stopwatch.FormatElapsed(int64(i+1)*1000))
	}

	m := newModel(context.Background(), failingBackend{}, nil, "")

	next, _ := m.Update(updateMsg(stopwatch.Snapshot{Display: "00:00", Laps: laps}))
	view := next.(model).View() //nolint:forcetypeassert // Test code.

	require.Contains(t, view, "lap 12")
	require.Contains(t, view, "lap  3")
	require.NotContains(t, view, "lap  2")
}
