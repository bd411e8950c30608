package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/stopwatch/internal/api/grpc/stopwatch"
	"github.com/oshokin/stopwatch/internal/api/web"
	"github.com/oshokin/stopwatch/internal/config"
	"github.com/oshokin/stopwatch/internal/logger"
	"github.com/oshokin/stopwatch/internal/metrics"
	pb "github.com/oshokin/stopwatch/internal/pb/v1"
)

// Options controls the stopwatch-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file. A missing file means defaults.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// WebAddress provides an optional listen address override for the web page.
	WebAddress string
	// DisableWeb turns the web listener off regardless of configuration.
	DisableWeb bool
	// TickInterval overrides the configured display refresh period when positive.
	TickInterval time.Duration
	// AllowMultiple skips the single-instance check.
	AllowMultiple bool
	// OnListen, when set, is called with the bound addresses once the listeners are open.
	// webAddress is empty when the web listener is disabled.
	OnListen func(grpcAddress, webAddress string)
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 5 * time.Second

// Run starts the servers and blocks until ctx is canceled or a server fails.
//
//nolint:cyclop,funlen // Startup wiring reads best in one place.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "stopwatch-server")

	settings, err := resolveSettings(opts)
	if err != nil {
		return err
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	if !opts.AllowMultiple {
		if err = ensureSingleInstance(ctx); err != nil {
			return err
		}
	}

	// Determine listen address: CLI argument overrides config.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	webAddress := settings.WebAddress

	collectors := metrics.New()

	svc := newService(settings.TickInterval, collectors)
	defer svc.close()

	lc := net.ListenConfig{}

	grpcListener, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	pb.RegisterStopwatchServiceServer(grpcServer, api.NewServer(svc))

	group, groupCtx := errgroup.WithContext(ctx)

	var (
		httpServer  *http.Server
		webListener net.Listener
	)

	if webAddress != "" {
		webListener, err = lc.Listen(ctx, "tcp", webAddress)
		if err != nil {
			_ = grpcListener.Close()

			return fmt.Errorf("listen on %s: %w", webAddress, err)
		}

		mux := http.NewServeMux()
		mux.Handle("GET /metrics", collectors.Handler())
		mux.Handle("/", web.NewHandler(
			groupCtx,
			svc,
			web.WithWriteTimeout(settings.Timeout),
			web.WithAllowedOrigins(settings.AllowedOrigins...),
		))

		httpServer = &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: settings.Timeout,
		}
	}

	logger.InfoKV(
		ctx,
		"Stopwatch server listening",
		"grpc_address", grpcListener.Addr().String(),
		"web_address", addressOf(webListener),
		"tick_interval", settings.TickInterval.String(),
		"log_level", logger.Level().String(),
	)

	if opts.OnListen != nil {
		opts.OnListen(grpcListener.Addr().String(), addressOf(webListener))
	}

	group.Go(func() error {
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	if httpServer != nil {
		group.Go(func() error {
			if err := httpServer.Serve(webListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve HTTP: %w", err)
			}

			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info(ctx, "Shutting down stopwatch server")

		// Watchers must be released first, GracefulStop waits for open streams.
		svc.close()
		grpcServer.GracefulStop()

		if httpServer == nil {
			return nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP: %w", err)
		}

		return nil
	})

	err = group.Wait()

	logger.Info(ctx, "Stopwatch server stopped")

	return err
}

// WriteSettings saves the settings Run would start with, command-line
// overrides applied, to opts.ConfigPath. Defaults are written when the file
// does not exist yet.
func WriteSettings(opts *Options) error {
	settings, err := resolveSettings(opts)
	if err != nil {
		return err
	}

	if opts.ListenAddress != "" {
		settings.ServerAddress, err = dialAddress(opts.ListenAddress)
		if err != nil {
			return err
		}
	}

	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultConfigFilename
	}

	if err = config.Save(path, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	return nil
}

// resolveSettings loads the settings file, or defaults when it is missing,
// and applies the web and tick overrides of opts.
func resolveSettings(opts *Options) (*config.Config, error) {
	settings, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.WebAddress != "" {
		settings.WebAddress = opts.WebAddress
	}

	if opts.DisableWeb {
		settings.WebAddress = ""
	}

	if opts.TickInterval > 0 {
		settings.TickInterval = opts.TickInterval
	}

	if err = config.Validate(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// dialAddress turns a listen address into one clients can dial:
// an empty host means the local machine.
func dialAddress(listenAddress string) (string, error) {
	host, port, err := net.SplitHostPort(listenAddress)
	if err != nil {
		return "", fmt.Errorf("invalid listen address format %q: %w", listenAddress, err)
	}

	if host == "" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port), nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:8080").
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Bind on all interfaces.
	return ":" + port, nil
}

// addressOf returns the listener address or an empty string for nil.
func addressOf(listener net.Listener) string {
	if listener == nil {
		return ""
	}

	return listener.Addr().String()
}
