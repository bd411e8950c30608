package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/oshokin/stopwatch/internal/config"
	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
	"github.com/oshokin/stopwatch/internal/service/client"
	"github.com/oshokin/stopwatch/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// serverAddress overrides server_addr.
	serverAddress string
	// output selects text or json output.
	output string

	// rootCmd represents the base command for controlling the stopwatch server.
	rootCmd = &cobra.Command{
		Use:   "stopwatch-ctl",
		Short: "Control the shared stopwatch from the command line.",
		Long: `Sends commands to a running stopwatch-server and prints the result.

Server address is loaded from configuration file unless --server is set.
Every command prints the resulting snapshot; watch follows the display live
and reconnects while the server is unavailable.`,
		Example: heredoc.Doc(`
			$ stopwatch-ctl start
			$ stopwatch-ctl lap
			$ stopwatch-ctl status --output json
			$ stopwatch-ctl watch --server 10.0.0.5:50051
		`),
		SilenceUsage: true,
	}
)

// Execute runs the stopwatch-ctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newActionCommand builds a subcommand running action against the server.
func newActionCommand(use, short, action string, aliases ...string) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return client.Run(ctx, &client.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				Action:        action,
				Format:        output,
				Out:           cmd.OutOrStdout(),
			})
		},
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "", "server address, overrides server_addr")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", client.FormatText, "output format: text or json")

	rootCmd.AddCommand(
		newActionCommand("start", "Start or resume the stopwatch.", stopwatch.CommandStart.String()),
		newActionCommand("stop", "Pause the stopwatch.", stopwatch.CommandStop.String()),
		newActionCommand("toggle", "Stop a running stopwatch, start any other.",
			stopwatch.CommandStartStop.String(), "start-stop"),
		newActionCommand("lap", "Record a lap while running.", stopwatch.CommandRecord.String(), "record"),
		newActionCommand("reset", "Return to zero and clear the laps.", stopwatch.CommandReset.String()),
		newActionCommand("status", "Print the current display and laps.", client.ActionStatus),
		newActionCommand("watch", "Follow the display until interrupted.", client.ActionWatch),
	)
}
