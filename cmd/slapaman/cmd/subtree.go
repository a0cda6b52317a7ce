package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wyomingwade/slapaman/internal/backup"
)

// newSubtreeCommand builds the backup, restore, set and backups commands of a subtree.
func newSubtreeCommand(subtree backup.Subtree) *cobra.Command {
	group := &cobra.Command{
		Use:   subtree.Name,
		Short: fmt.Sprintf("Back up, restore or replace the %s of an instance.", subtree.Name),
	}

	var tag string

	backupCmd := &cobra.Command{
		Use:   "backup <name>",
		Short: fmt.Sprintf("Create a timestamped backup of the %s.", subtree.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.lifecycle.Backup(cmd.Context(), args[0], subtree, tag)
			if err != nil {
				return fmt.Errorf("back up %s of %s: %w", subtree.Name, args[0], err)
			}

			return printf(cmd, "created %s backup for server instance %s -> %s\n", subtree.Name, args[0], path)
		},
	}
	backupCmd.Flags().StringVarP(&tag, "tag", "t", "", "label appended to the backup directory name")

	restoreCmd := &cobra.Command{
		Use:   "restore <name> <backup>",
		Short: fmt.Sprintf("Restore the %s from a backup name or path.", subtree.Name),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.lifecycle.Restore(cmd.Context(), args[0], subtree, args[1]); err != nil {
				return fmt.Errorf("restore %s of %s: %w", subtree.Name, args[0], err)
			}

			return printf(cmd, "restored %s backup for server instance %s\n", subtree.Name, args[0])
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <name> <path>",
		Short: fmt.Sprintf("Replace the %s with an existing directory.", subtree.Name),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.lifecycle.SetSubtree(cmd.Context(), args[0], subtree, args[1]); err != nil {
				return fmt.Errorf("set %s of %s: %w", subtree.Name, args[0], err)
			}

			return printf(cmd, "successfully set %s for server instance %s\n", subtree.Name, args[0])
		},
	}

	backupsCmd := &cobra.Command{
		Use:   "backups <name>",
		Short: fmt.Sprintf("List the %s backups of an instance.", subtree.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := app.lifecycle.Backups(cmd.Context(), args[0], subtree)
			if err != nil {
				return err
			}

			for _, name := range names {
				if err = printf(cmd, "%s\n", name); err != nil {
					return err
				}
			}

			return nil
		},
	}

	group.AddCommand(backupCmd, restoreCmd, setCmd, backupsCmd)

	return group
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	for _, subtree := range backup.Subtrees() {
		rootCmd.AddCommand(newSubtreeCommand(subtree))
	}
}
