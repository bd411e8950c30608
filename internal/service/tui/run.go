package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oshokin/stopwatch/internal/config"
	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
	"github.com/oshokin/stopwatch/internal/logger"
	"github.com/oshokin/stopwatch/internal/service/common"
	"github.com/oshokin/stopwatch/internal/service/hub"
)

// Options configures the terminal UI.
type Options struct {
	// ConfigPath to YAML settings file. A missing file means defaults.
	ConfigPath string
	// Remote follows the stopwatch server instead of a local engine.
	Remote bool
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// TickInterval overrides the configured refresh period of the local engine.
	TickInterval time.Duration
	// LogFile receives log lines. Logs are discarded when empty.
	LogFile string
}

// localBackend runs commands on an in-process engine.
type localBackend struct {
	engine *stopwatch.Engine
}

// Apply runs cmd on the engine.
func (b localBackend) Apply(_ context.Context, cmd stopwatch.Command) (stopwatch.Snapshot, error) {
	return b.engine.Apply(cmd)
}

// Run draws the stopwatch until the user quits or ctx is canceled.
//
//nolint:funlen // Local and remote wiring share the program setup.
func Run(ctx context.Context, opts *Options) error {
	settings, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	closeLog, err := redirectLogs(opts.LogFile, settings.LogLevel)
	if err != nil {
		return err
	}

	defer closeLog()

	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "stopwatch-tui")

	updates := hub.New()

	sub := updates.Subscribe()
	defer sub.Close()

	var (
		backend Backend
		title   string
		follow  func(ctx context.Context) error
	)

	if opts.Remote {
		serverAddress := settings.ServerAddress
		if opts.ServerAddress != "" {
			serverAddress = opts.ServerAddress
		}

		actor, err := common.DetectActor(Origin)
		if err != nil {
			logger.WarnKV(ctx, "Unable to detect actor", "error", err)
		}

		client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(settings.Timeout), common.WithActor(actor))
		if err != nil {
			return err
		}

		defer func() {
			_ = client.Close()
		}()

		backend = client
		title = "stopwatch @ " + serverAddress
		follow = func(ctx context.Context) error {
			return client.Watch(ctx, func(snapshot stopwatch.Snapshot) error {
				updates.Publish(snapshot)

				return nil
			})
		}
	} else {
		tickInterval := settings.TickInterval
		if opts.TickInterval > 0 {
			tickInterval = opts.TickInterval
		}

		engine := stopwatch.New(
			stopwatch.WithTickInterval(tickInterval),
			stopwatch.WithListener(updates.Publish),
		)
		defer engine.Reset()

		backend = localBackend{engine: engine}
		title = "stopwatch"
	}

	programCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(
		newModel(programCtx, backend, sub.C(), title),
		tea.WithContext(programCtx),
		tea.WithAltScreen(),
	)

	if follow != nil {
		go func() {
			err := follow(programCtx)
			if err != nil && programCtx.Err() == nil {
				logger.ErrorKV(ctx, "Watch stream failed", "error", err)
				program.Send(errMsg{err: fmt.Errorf("connection lost: %w", err)})
			}
		}()
	}

	logger.InfoKV(ctx, "Terminal UI started", "remote", opts.Remote)

	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	if err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}

	return nil
}

// redirectLogs points the global logger at path, or discards logs when path is empty.
// The terminal belongs to the UI while it runs.
func redirectLogs(path, level string) (func(), error) {
	previous := logger.Logger()

	if parsed, ok := logger.ParseLogLevel(level); ok {
		logger.SetLevel(parsed)
	}

	var (
		w       io.Writer = io.Discard
		closeFn           = func() {}
	)

	if path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.DefaultFilePermissions)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}

		w = file
		closeFn = func() {
			_ = file.Close()
		}
	}

	logger.SetLogger(logger.NewWithWriter(w, nil))

	return func() {
		logger.SetLogger(previous)
		closeFn()
	}, nil
}
