package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
	"github.com/wyomingwade/slapaman/internal/logger"
	"github.com/wyomingwade/slapaman/internal/service/launcher"
	"github.com/wyomingwade/slapaman/internal/service/lifecycle"
)

var (
	updateVersion string
	updateFlavor  string

	updateCmd = &cobra.Command{
		Use:   "update <name>",
		Short: "Update an existing instance to a new version.",
		Long: `Replaces the server jar of an instance. Without --version the newest
version of the kind the instance already runs (release or snapshot) is used.
Updating to the version and flavor already installed is refused.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := updateOptions()
			if err != nil {
				return err
			}

			warnRunningServers(cmd.Context())

			inst, err := app.lifecycle.Update(cmd.Context(), args[0], opts)
			if err != nil {
				return fmt.Errorf("update %s: %w", args[0], err)
			}

			return printf(cmd, "updated server instance %s to %s %s\n", inst.Name, inst.Flavor, inst.Version)
		},
	}

	updateAllCmd = &cobra.Command{
		Use:   "update-all",
		Short: "Update every instance to a new version.",
		Long: `Updates each instance independently. A failure on one instance is
reported and does not stop the others.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := updateOptions()
			if err != nil {
				return err
			}

			warnRunningServers(cmd.Context())

			report, err := app.lifecycle.UpdateAll(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if err = printReport(cmd, report); err != nil {
				return err
			}

			return report.Err()
		},
	}
)

func updateOptions() (lifecycle.UpdateOptions, error) {
	opts := lifecycle.UpdateOptions{Version: updateVersion}

	if updateFlavor != "" {
		flavor, err := domain.ParseFlavor(updateFlavor)
		if err != nil {
			return opts, err
		}

		opts.Flavor = flavor
	}

	return opts, nil
}

func printReport(cmd *cobra.Command, report *lifecycle.Report) error {
	failed := make([]string, 0, len(report.Failed))
	for name := range report.Failed {
		failed = append(failed, name)
	}

	sort.Strings(failed)

	lines := []string{
		"updated: " + joinOrNone(report.Updated),
		"current: " + joinOrNone(report.Current),
		"failed:  " + joinOrNone(failed),
	}

	return printf(cmd, "%s\n", strings.Join(lines, "\n"))
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}

	return strings.Join(names, ", ")
}

// warnRunningServers flags Java processes that may hold a jar about to be replaced.
func warnRunningServers(ctx context.Context) {
	pids, err := launcher.RunningJVMs()
	if err != nil || len(pids) == 0 {
		return
	}

	logger.WarnKV(ctx, "Java processes are running, stop servers before updating them", "pids", pids)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	for _, c := range []*cobra.Command{updateCmd, updateAllCmd} {
		c.Flags().StringVarP(&updateVersion, "version", "V", "", "target version, e.g. release-1.20.1 or snapshot-latest")
		c.Flags().StringVarP(&updateFlavor, "flavor", "f", "", "switch to another flavor (default keeps the current one)")
	}

	rootCmd.AddCommand(updateCmd, updateAllCmd)
}
