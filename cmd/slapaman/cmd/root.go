package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wyomingwade/slapaman/internal/logger"
	"github.com/wyomingwade/slapaman/internal/version"
)

var (
	// configPath to the settings YAML file.
	configPath string
	// verbosity is the number of -v flags.
	verbosity int
	// logLevel overrides both the settings file and -v.
	logLevel string

	// app is built once flags are parsed.
	app *application

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "slapaman",
		Short: "Download, manage and run local Minecraft Java servers.",
		Long: `slapaman creates, renames, copies, moves, removes, runs and updates local
Minecraft Java edition server instances and snapshots their worlds.

Instances are recorded in servers.lock inside the data directory
(SLAPAMAN_HOME, or the per-user data directory by default).
Server jars are downloaded from Mojang, PaperMC or Fabric and verified
against the published size and digest when the upstream provides them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}

			var err error

			app, err = newApplication(cmd.Context())

			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync()
		},
	}
)

// Execute runs the slapaman CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		logger.Errorf(ctx, "%v", err)
		logger.Sync()
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to settings file (default {data dir}/slapaman.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}
