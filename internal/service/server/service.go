package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
	"github.com/oshokin/stopwatch/internal/logger"
	"github.com/oshokin/stopwatch/internal/metrics"
	"github.com/oshokin/stopwatch/internal/service/hub"
)

// errShuttingDown ends watchers and rejects commands when the server stops.
var errShuttingDown = fmt.Errorf("server is shutting down: %w", stopwatch.ErrClosed)

// service owns the process-wide stopwatch and fans its snapshots out.
// It is unexported to keep the transports decoupled from the implementation.
type service struct {
	// engine is the single stopwatch of the process.
	engine *stopwatch.Engine
	// hub distributes engine snapshots to watchers.
	hub *hub.Hub
	// metrics records commands and snapshots, may be nil.
	metrics *metrics.Metrics
	// done is closed by close.
	done chan struct{}
	// closeOnce guards close.
	closeOnce sync.Once
	// lifecycle is held for reading by Apply and for writing while done is
	// closed, so no command reaches the engine once close has begun.
	lifecycle sync.RWMutex
}

// newService creates the engine and wires its listener to the hub and metrics.
func newService(tickInterval time.Duration, m *metrics.Metrics, opts ...stopwatch.Option) *service {
	s := &service{
		hub:     hub.New(),
		metrics: m,
		done:    make(chan struct{}),
	}

	listener := func(snapshot stopwatch.Snapshot) {
		if s.metrics != nil {
			s.metrics.ObserveSnapshot(snapshot)
		}

		s.hub.Publish(snapshot)
	}

	engineOptions := append([]stopwatch.Option{
		stopwatch.WithTickInterval(tickInterval),
		stopwatch.WithListener(listener),
	}, opts...)

	s.engine = stopwatch.New(engineOptions...)

	return s
}

// Apply runs cmd on the engine on behalf of actor.
func (s *service) Apply(ctx context.Context, actor *stopwatch.Actor, cmd stopwatch.Command) (stopwatch.Snapshot, error) {
	s.lifecycle.RLock()
	defer s.lifecycle.RUnlock()

	select {
	case <-s.done:
		return stopwatch.Snapshot{}, errShuttingDown
	default:
	}

	before := s.engine.State()

	snapshot, err := s.engine.Apply(cmd)
	if err != nil {
		logger.WarnKV(ctx, "Command rejected", "command", cmd.String(), "actor", actor.String(), "error", err)

		return stopwatch.Snapshot{}, err
	}

	if s.metrics != nil {
		origin := "unknown"
		if actor != nil && actor.Origin != "" {
			origin = actor.Origin
		}

		s.metrics.ObserveCommand(cmd, origin)
	}

	logger.InfoKV(
		ctx,
		"Command applied",
		"command", cmd.String(),
		"actor", actor.String(),
		"from", before.String(),
		"to", snapshot.State.String(),
		"display", snapshot.Display,
		"lap", snapshot.Lap,
	)

	return snapshot, nil
}

// Snapshot returns the current state of the stopwatch.
func (s *service) Snapshot(ctx context.Context) stopwatch.Snapshot {
	snapshot := s.engine.Snapshot()

	logger.DebugKV(ctx, "Snapshot requested", "state", snapshot.State.String(), "display", snapshot.Display)

	return snapshot
}

// Watch sends the current snapshot and then every published one until ctx
// is canceled, send fails or the service closes.
func (s *service) Watch(ctx context.Context, send func(stopwatch.Snapshot) error) error {
	sub := s.hub.Subscribe()
	defer sub.Close()

	if s.metrics != nil {
		s.metrics.SubscriberAdded()
		defer s.metrics.SubscriberRemoved()
	}

	logger.DebugKV(ctx, "Watcher attached", "watchers", s.hub.Len())

	if err := send(s.engine.Snapshot()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return errShuttingDown
		case snapshot, ok := <-sub.C():
			if !ok {
				return errShuttingDown
			}

			if err := send(snapshot); err != nil {
				return err
			}
		}
	}
}

// close cancels the refresh tick and releases every watcher.
func (s *service) close() {
	s.closeOnce.Do(func() {
		// Waits for commands in flight.
		s.lifecycle.Lock()
		close(s.done)
		s.lifecycle.Unlock()

		s.engine.Reset()
	})
}
