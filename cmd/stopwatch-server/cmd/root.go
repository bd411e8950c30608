package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/oshokin/stopwatch/internal/config"
	"github.com/oshokin/stopwatch/internal/service/server"
	"github.com/oshokin/stopwatch/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// webAddress overrides the web listen address.
	webAddress string
	// noWeb disables the page and the metrics endpoint.
	noWeb bool
	// tickInterval overrides the display refresh period.
	tickInterval = config.DefaultTickInterval
	// allowMultiple skips the single-instance check.
	allowMultiple bool
	// writeConfig saves the effective settings instead of serving.
	writeConfig bool

	// rootCmd represents the base command for running the stopwatch server.
	rootCmd = &cobra.Command{
		Use:   "stopwatch-server [listen-address]",
		Short: "Run the shared stopwatch with its web page and gRPC API.",
		Long: `Starts the process-wide stopwatch and serves it to every client.

The gRPC API listens on the specified address or uses settings from configuration file.
Only the port from server_addr config is used for listening (e.g., :50051).
The web page, its WebSocket and the Prometheus metrics are served on web_addr.
Only one server may run per machine unless --allow-multiple is set.
The stopwatch is not persisted: it starts at zero on every launch.`,
		Example: heredoc.Doc(`
			# Serve with the settings file next to the binary
			$ stopwatch-server

			# Listen on every interface, port 9090, and serve the page on :8081
			$ stopwatch-server :9090 --web :8081

			# Refresh the display every 100ms, gRPC only
			$ stopwatch-server --tick 100ms --no-web

			# Save the settings above to the configuration file and exit
			$ stopwatch-server :9090 --web :8081 --write-config
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				WebAddress:    webAddress,
				DisableWeb:    noWeb,
				AllowMultiple: allowMultiple,
			}

			// Only an explicit flag overrides the configured refresh period.
			if cmd.Flags().Changed("tick") {
				options.TickInterval = tickInterval
			}

			if writeConfig {
				if err := server.WriteSettings(options); err != nil {
					return err
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", configPath)

				return nil
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the stopwatch-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&webAddress, "web", "w", "", "web listen address, overrides web_addr")
	rootCmd.Flags().BoolVar(&noWeb, "no-web", false, "do not serve the web page and metrics")
	rootCmd.Flags().DurationVarP(&tickInterval, "tick", "t", config.DefaultTickInterval, "display refresh period")
	rootCmd.Flags().BoolVar(&allowMultiple, "allow-multiple", false, "skip the single-instance check")
	rootCmd.Flags().BoolVar(&writeConfig, "write-config", false, "save the effective settings to --config and exit")
}
