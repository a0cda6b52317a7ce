package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
	"github.com/wyomingwade/slapaman/internal/service/lifecycle"
)

// execute runs the root command with args against an isolated data directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("SLAPAMAN_HOME", t.TempDir())

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())

	return out.String(), err
}

// TestList_EmptyRegistry wires the application against a fresh data directory.
func TestList_EmptyRegistry(t *testing.T) {
	out, err := execute(t, "list", "--detailed")
	require.NoError(t, err)
	require.Contains(t, out, "no server instances")
	require.NotNil(t, app)
	require.Contains(t, app.cfg.RegistryFile, "servers.lock")
}

// TestCommandTree registers every subtree group and parses shared flags.
func TestCommandTree(t *testing.T) {
	for _, name := range []string{"world", "nether", "end"} {
		group, _, err := rootCmd.Find([]string{name, "backup"})
		require.NoError(t, err)
		require.Equal(t, "backup", group.Name())
		require.NotNil(t, group.Flags().Lookup("tag"))
	}

	_, err := execute(t, "-vv", "update", "--help")
	require.NoError(t, err)

	_, err = execute(t, "remove", "ghost")
	require.Error(t, err)
}

// TestRenderDetailed prints one block per instance.
func TestRenderDetailed(t *testing.T) {
	t.Parallel()

	inst := domain.New("survival", "/srv", "release-1.20.1", domain.Paper, time.Now())

	out := renderDetailed([]*domain.Instance{inst})
	require.Contains(t, out, "1 server instance(s)")
	require.Contains(t, out, "survival")
	require.Contains(t, out, "release-1.20.1")
	require.Contains(t, out, inst.ID)
}

// TestPrintReport lists every outcome bucket.
func TestPrintReport(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	c := &cobra.Command{}
	c.SetOut(&out)

	report := &lifecycle.Report{
		Updated: []string{"a"},
		Failed:  map[string]error{"c": errors.New("boom"), "b": errors.New("boom")},
	}

	require.NoError(t, printReport(c, report))
	require.Equal(t, "updated: a\ncurrent: none\nfailed:  b, c\n", out.String())
}
