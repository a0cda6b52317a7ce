package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
	"github.com/wyomingwade/slapaman/internal/service/lifecycle"
	"github.com/wyomingwade/slapaman/internal/upstream"
)

var (
	newOptions struct {
		path       string
		version    string
		flavor     string
		ignoreEULA bool
		loader     string
		installer  string
	}

	newCmd = &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new server instance.",
		Long: `Creates a server instance directory, downloads and verifies the server jar
and records the instance. Versions are written as release-<id> or
snapshot-<id>, where <id> may be "latest".`,
		Example: `  slapaman new survival
  slapaman new modded --flavor fabric --version release-1.20.1
  slapaman new testing --version snapshot-latest --path /srv/minecraft`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flavor, err := domain.ParseFlavor(newOptions.flavor)
			if err != nil {
				return err
			}

			inst, err := app.lifecycle.Create(cmd.Context(), lifecycle.CreateOptions{
				Name:       args[0],
				Path:       newOptions.path,
				Version:    newOptions.version,
				Flavor:     flavor,
				AcceptEULA: !newOptions.ignoreEULA,
				Fabric: upstream.FabricOptions{
					Loader:    newOptions.loader,
					Installer: newOptions.installer,
				},
			})
			if err != nil {
				return fmt.Errorf("create %s: %w", args[0], err)
			}

			return printf(cmd, "created server instance %s (%s %s) at %s\n",
				inst.Name, inst.Flavor, inst.Version, inst.Dir())
		},
	}

	renameCmd = &cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename an existing instance.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.lifecycle.Rename(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("rename %s: %w", args[0], err)
			}

			return printf(cmd, "renamed server instance %s to %s\n", args[0], inst.Name)
		},
	}

	copyCmd = &cobra.Command{
		Use:   "copy <name> <new-name>",
		Short: "Copy an existing instance.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.lifecycle.Copy(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("copy %s: %w", args[0], err)
			}

			return printf(cmd, "copied server instance %s to %s at %s\n", args[0], inst.Name, inst.Dir())
		},
	}

	moveCmd = &cobra.Command{
		Use:   "move <name> <new-path>",
		Short: "Move an existing instance to a new directory.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.lifecycle.Move(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("move %s: %w", args[0], err)
			}

			return printf(cmd, "moved server instance %s to %s\n", inst.Name, inst.Dir())
		},
	}

	removeCmd = &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an existing instance and its directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.lifecycle.Remove(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("remove %s: %w", args[0], err)
			}

			return printf(cmd, "removed server instance %s\n", args[0])
		},
	}
)

func printf(cmd *cobra.Command, format string, args ...any) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...)

	return err
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := newCmd.Flags()
	flags.StringVarP(&newOptions.path, "path", "p", "", "root directory of the instance (default {data dir}/servers)")
	flags.StringVarP(&newOptions.version, "version", "V", "release-latest", "server version")
	flags.StringVarP(&newOptions.flavor, "flavor", "f", string(domain.Vanilla), "server flavor: vanilla, paper or fabric")
	flags.BoolVarP(&newOptions.ignoreEULA, "ignore-eula", "i", false, "do not accept the Minecraft EULA")
	flags.StringVar(&newOptions.loader, "loader", "", "fabric loader version (default from settings)")
	flags.StringVar(&newOptions.installer, "installer", "", "fabric installer version (default from settings)")

	rootCmd.AddCommand(newCmd, renameCmd, copyCmd, moveCmd, removeCmd)
}
