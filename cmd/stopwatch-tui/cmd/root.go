package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/oshokin/stopwatch/internal/config"
	"github.com/oshokin/stopwatch/internal/service/tui"
	"github.com/oshokin/stopwatch/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// remote follows the stopwatch server instead of a local engine.
	remote bool
	// logFile receives log lines while the screen is drawn.
	logFile string

	// rootCmd represents the base command for the terminal stopwatch.
	rootCmd = &cobra.Command{
		Use:   "stopwatch-tui [server-address]",
		Short: "Run the stopwatch in the terminal.",
		Long: `Draws the stopwatch in the terminal.

Keys: s starts or stops, t records a lap, r resets, q quits.
By default the stopwatch lives in this process. With --remote the screen
follows the stopwatch-server instead, and keys are sent to it over gRPC.
Server address can be provided as argument or loaded from configuration file.`,
		Example: heredoc.Doc(`
			# Local stopwatch
			$ stopwatch-tui

			# Follow the shared stopwatch and keep a log
			$ stopwatch-tui --remote 10.0.0.5:50051 --log stopwatch-tui.log
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use server address argument if provided, otherwise rely on config.
			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			return tui.Run(ctx, &tui.Options{
				ConfigPath:    configPath,
				Remote:        remote || serverAddress != "",
				ServerAddress: serverAddress,
				LogFile:       logFile,
			})
		},
	}
)

// Execute runs the stopwatch-tui CLI and exits with non-zero status on error.
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
	rootCmd.Flags().BoolVarP(&remote, "remote", "r", false, "follow the stopwatch server")
	rootCmd.Flags().StringVarP(&logFile, "log", "l", "", "append logs to this file")
}
