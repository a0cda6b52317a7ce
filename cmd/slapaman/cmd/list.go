package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
)

var (
	listDetailed bool

	headerStyle = lipgloss.NewStyle().Bold(true)
	nameStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List all instances.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			instances, err := app.lifecycle.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(instances) == 0 {
				return printf(cmd, "%s\n", dimStyle.Render("no server instances"))
			}

			if !listDetailed {
				for _, inst := range instances {
					if err = printf(cmd, "%s\n", inst.Name); err != nil {
						return err
					}
				}

				return nil
			}

			return printf(cmd, "%s", renderDetailed(instances))
		},
	}
)

// renderDetailed formats one block per instance.
func renderDetailed(instances []*domain.Instance) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%d server instance(s)", len(instances))))
	b.WriteString("\n")

	for _, inst := range instances {
		b.WriteString("\n")
		b.WriteString(nameStyle.Render(inst.Name))
		b.WriteString("\n")

		rows := [][2]string{
			{"flavor", inst.Flavor.String()},
			{"version", inst.Version},
			{"path", inst.Dir()},
			{"eula", fmt.Sprint(inst.EULA)},
		}

		if inst.ID != "" {
			rows = append(rows, [2]string{"id", inst.ID})
		}

		if !inst.CreatedAt.IsZero() {
			rows = append(rows, [2]string{"created", inst.CreatedAt.Local().Format("2006-01-02 15:04")})
		}

		if !inst.UpdatedAt.IsZero() {
			rows = append(rows, [2]string{"updated", inst.UpdatedAt.Local().Format("2006-01-02 15:04")})
		}

		for _, row := range rows {
			fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(fmt.Sprintf("%-8s", row[0])), row[1])
		}
	}

	return b.String()
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	listCmd.Flags().BoolVarP(&listDetailed, "detailed", "d", false, "show version, flavor and location of every instance")

	rootCmd.AddCommand(listCmd)
}
