package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wyomingwade/slapaman/internal/upstream"
)

// TestPersist_CreateAndRefuse installs a new artifact and refuses to clobber it.
func TestPersist_CreateAndRefuse(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "server.jar")
	digest := &upstream.Digest{Algorithm: upstream.SHA1, Hex: sha1Hex(jarBody)}

	require.NoError(t, Persist(context.Background(), path, jarBody, digest, false))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, jarBody, got)

	err = Persist(context.Background(), path, []byte("other"), nil, false)
	require.ErrorIs(t, err, ErrArtifactExists)

	got, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, jarBody, got)
}

// TestPersist_Overwrite replaces the artifact and leaves no side files behind.
func TestPersist_Overwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "server.jar")
	require.NoError(t, os.WriteFile(path, []byte("old jar"), FileMode))

	require.NoError(t, Persist(context.Background(), path, jarBody, nil, true))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, jarBody, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

// TestPersist_ChecksumRejected keeps the previous artifact when the apply check fails.
func TestPersist_ChecksumRejected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "server.jar")
	require.NoError(t, os.WriteFile(path, []byte("old jar"), FileMode))

	digest := &upstream.Digest{Algorithm: upstream.SHA1, Hex: sha1Hex([]byte("something else"))}
	require.Error(t, Persist(context.Background(), path, jarBody, digest, true))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("old jar"), got)
}

// TestPersist_FailedCreateLeavesNothing removes the placeholder of a rejected first install.
func TestPersist_FailedCreateLeavesNothing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "server.jar")
	digest := &upstream.Digest{Algorithm: upstream.SHA1, Hex: sha1Hex([]byte("something else"))}

	require.Error(t, Persist(context.Background(), path, jarBody, digest, false))

	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}
