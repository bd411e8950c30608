package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
)

// Origin is the actor origin of commands sent from the terminal.
const Origin = "tui"

// maxVisibleLaps is the number of most recent laps listed.
const maxVisibleLaps = 10

// Backend runs commands against a local or remote stopwatch.
type Backend interface {
	Apply(ctx context.Context, cmd stopwatch.Command) (stopwatch.Snapshot, error)
}

type (
	// updateMsg carries a snapshot pushed by the stopwatch.
	updateMsg stopwatch.Snapshot
	// appliedMsg reports a successful command. The display follows updateMsg
	// only: a command reply can arrive after a newer pushed snapshot.
	appliedMsg struct{}
	// errMsg reports a failed command or a broken update stream.
	errMsg struct{ err error }
	// updatesClosedMsg reports that no more snapshots will arrive.
	updatesClosedMsg struct{}
)

// model is the bubbletea model of the stopwatch screen.
type model struct {
	// ctx bounds backend calls.
	ctx context.Context //nolint:containedctx // bubbletea commands have no context parameter.
	// backend runs commands.
	backend Backend
	// updates delivers pushed snapshots.
	updates <-chan stopwatch.Snapshot
	// title is shown above the display.
	title string
	// snapshot is the last known state.
	snapshot stopwatch.Snapshot
	// err is the last error, cleared by the next successful command.
	err error
}

// newModel creates a model showing a stopwatch at zero until the first update.
func newModel(ctx context.Context, backend Backend, updates <-chan stopwatch.Snapshot, title string) model {
	return model{
		ctx:     ctx,
		backend: backend,
		updates: updates,
		title:   title,
		snapshot: stopwatch.Snapshot{
			Display: stopwatch.ZeroDisplay,
		},
	}
}

// Init starts listening for pushed snapshots.
func (m model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

// Update handles keys, command results and pushed snapshots.
//
//nolint:ireturn // bubbletea interface.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

		cmd, ok := stopwatch.CommandForKey(msg.String())
		if !ok {
			return m, nil
		}

		return m, apply(m.ctx, m.backend, cmd)
	case appliedMsg:
		m.err = nil

		return m, nil
	case updateMsg:
		m.snapshot = stopwatch.Snapshot(msg)

		return m, waitForUpdate(m.updates)
	case errMsg:
		m.err = msg.err

		return m, nil
	case updatesClosedMsg:
		return m, tea.Quit
	}

	return m, nil
}

// View renders the display, the laps and the key help.
func (m model) View() string {
	var b strings.Builder

	if m.title != "" {
		b.WriteString(stateStyle.Render(m.title))
		b.WriteString("\n\n")
	}

	b.WriteString(styleFor(m.snapshot.State).Render(m.snapshot.Display))
	b.WriteString("  ")
	b.WriteString(stateStyle.Render(m.snapshot.State.String()))
	b.WriteString("\n")

	laps := m.snapshot.Laps
	first := max(0, len(laps)-maxVisibleLaps)

	if len(laps) > 0 {
		b.WriteString("\n")
	}

	for i := len(laps) - 1; i >= first; i-- {
		b.WriteString(lapStyle.Render(fmt.Sprintf("lap %2d  %s", i+1, laps[i])))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("s start/stop · t lap · r reset · q quit"))

	return frameStyle.Render(b.String())
}

// apply runs cmd on the backend outside the update loop.
func apply(ctx context.Context, backend Backend, cmd stopwatch.Command) tea.Cmd {
	return func() tea.Msg {
		if _, err := backend.Apply(ctx, cmd); err != nil {
			return errMsg{err: err}
		}

		return appliedMsg{}
	}
}

// waitForUpdate blocks until the next pushed snapshot.
func waitForUpdate(updates <-chan stopwatch.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-updates
		if !ok {
			return updatesClosedMsg{}
		}

		return updateMsg(snapshot)
	}
}
