package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wyomingwade/slapaman/internal/service/launcher"
)

var (
	runMemory string
	runQuiet  bool

	runCmd = &cobra.Command{
		Use:   "run <name>",
		Short: "Start an existing instance in the foreground.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.lifecycle.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			memory := runMemory
			if memory == "" {
				memory = app.cfg.DefaultMemory
			}

			memoryMiB, err := launcher.ParseMemory(memory)
			if err != nil {
				return err
			}

			return launcher.Run(cmd.Context(), launcher.Options{
				Dir:       inst.Dir(),
				MemoryMiB: memoryMiB,
				Quiet:     runQuiet,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	runCmd.Flags().StringVarP(&runMemory, "memory", "m", "", "heap size, e.g. 4G or 2048M (default from settings)")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "discard server output")

	rootCmd.AddCommand(runCmd)
}
