package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/avast/retry-go"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	api "github.com/oshokin/stopwatch/internal/api/grpc/stopwatch"
	"github.com/oshokin/stopwatch/internal/config"
	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
	"github.com/oshokin/stopwatch/internal/logger"
	"github.com/oshokin/stopwatch/internal/service/common"
)

// Actions that are not stopwatch commands.
const (
	// ActionStatus prints the current snapshot.
	ActionStatus = "status"
	// ActionWatch follows the live display.
	ActionWatch = "watch"
)

// Options configures a single stopwatch-ctl invocation.
type Options struct {
	// ConfigPath to YAML settings file. A missing file means defaults.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Action is a command name (start, stop, start_stop, record, reset), status or watch.
	Action string
	// Format is FormatText or FormatJSON.
	Format string
	// ReconnectAttempts bounds the reconnects of watch. Zero means the default.
	ReconnectAttempts uint
	// ReconnectDelay is the initial delay between reconnects. Zero means the default.
	ReconnectDelay time.Duration
	// Out receives the output, defaults to os.Stdout.
	Out io.Writer
}

const (
	// defaultReconnectAttempts bounds watch reconnects.
	defaultReconnectAttempts = 10
	// defaultReconnectDelay is the first reconnect delay, doubled on every failure.
	defaultReconnectDelay = 500 * time.Millisecond
	// maxReconnectDelay caps the reconnect delay.
	maxReconnectDelay = 5 * time.Second
)

// errStreamClosed is reported when the server ends a watch stream cleanly.
var errStreamClosed = errors.New("watch stream closed by server")

// stopwatchClient is the part of common.Client used here.
type stopwatchClient interface {
	Apply(ctx context.Context, cmd stopwatch.Command) (stopwatch.Snapshot, error)
	GetSnapshot(ctx context.Context) (stopwatch.Snapshot, error)
	Watch(ctx context.Context, fn func(stopwatch.Snapshot) error) error
}

// Run connects to the server and performs opts.Action.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "stopwatch-ctl")

	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	settings, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := settings.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	// Identify current user and hostname for the server log.
	actor, err := common.DetectActor(api.Origin)
	if err != nil {
		logger.WarnKV(ctx, "Unable to detect actor", "error", err)
	}

	client, err := common.Dial(
		ctx,
		serverAddress,
		common.WithCallTimeout(settings.Timeout),
		common.WithActor(actor),
	)
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Connected", "server_address", serverAddress, "action", opts.Action)

	return execute(ctx, client, opts)
}

// execute performs the action against client.
func execute(ctx context.Context, client stopwatchClient, opts *Options) error {
	// A bad format must fail before the command reaches the shared stopwatch.
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	switch opts.Action {
	case ActionStatus:
		snapshot, err := client.GetSnapshot(ctx)
		if err != nil {
			return err
		}

		return renderSnapshot(out, snapshot, opts.Format, true)
	case ActionWatch:
		return follow(ctx, client, out, opts)
	default:
		cmd, err := stopwatch.ParseCommand(opts.Action)
		if err != nil {
			return err
		}

		snapshot, err := client.Apply(ctx, cmd)
		if err != nil {
			return err
		}

		return renderSnapshot(out, snapshot, opts.Format, false)
	}
}

// follow prints every pushed snapshot and reconnects while the server is unavailable.
// It returns nil once ctx is canceled.
func follow(ctx context.Context, client stopwatchClient, out io.Writer, opts *Options) error {
	attempts := opts.ReconnectAttempts
	if attempts == 0 {
		attempts = defaultReconnectAttempts
	}

	delay := opts.ReconnectDelay
	if delay <= 0 {
		delay = defaultReconnectDelay
	}

	err := retry.Do(
		func() error {
			err := client.Watch(ctx, func(snapshot stopwatch.Snapshot) error {
				return renderSnapshot(out, snapshot, opts.Format, false)
			})
			if err == nil {
				return errStreamClosed
			}

			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.MaxDelay(maxReconnectDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil && isReconnectable(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			logger.WarnKV(ctx, "Watch interrupted, reconnecting", "attempt", n+1, "error", err)
		}),
	)
	if ctx.Err() != nil {
		return nil
	}

	return err
}

// isReconnectable reports whether a watch failure may go away by reconnecting.
func isReconnectable(err error) bool {
	if errors.Is(err, errStreamClosed) {
		return true
	}

	switch status.Code(err) {
	case codes.Unavailable, codes.Aborted:
		return true
	default:
		return false
	}
}
