package lifecycle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wyomingwade/slapaman/internal/artifact"
	"github.com/wyomingwade/slapaman/internal/backup"
	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
	"github.com/wyomingwade/slapaman/internal/repository/registry"
	"github.com/wyomingwade/slapaman/internal/upstream"
)

var testNow = time.Date(2024, time.May, 4, 10, 0, 0, 0, time.UTC)

// stubResolver serves artifacts from an in-memory catalogue.
type stubResolver struct {
	latest  map[domain.Kind]string
	bodies  map[string][]byte
	mu      sync.Mutex
	resolve int
}

func newStubResolver() *stubResolver {
	return &stubResolver{
		latest: map[domain.Kind]string{domain.Release: "1.20.1", domain.Snapshot: "24w14a"},
		bodies: make(map[string][]byte),
	}
}

func artifactURL(flavor domain.Flavor, id string) string {
	return fmt.Sprintf("https://downloads.test/%s/%s/server.jar", flavor, id)
}

func jarFor(flavor domain.Flavor, id string) []byte {
	return []byte("jar " + string(flavor) + " " + id)
}

func (r *stubResolver) ResolveID(_ context.Context, spec domain.VersionSpec) (string, error) {
	if !spec.IsLatest() {
		return spec.ID, nil
	}

	return r.latest[spec.Kind], nil
}

func (r *stubResolver) Resolve(
	ctx context.Context,
	flavor domain.Flavor,
	spec domain.VersionSpec,
	_ upstream.FabricOptions,
) (upstream.Artifact, error) {
	r.mu.Lock()
	r.resolve++
	r.mu.Unlock()

	id, _ := r.ResolveID(ctx, spec)
	if id == "9.9.9" {
		return upstream.Artifact{}, fmt.Errorf("%s: %w", id, upstream.ErrVersionNotFound)
	}

	body := jarFor(flavor, id)
	sum := sha256.Sum256(body)
	size := uint64(len(body))

	return upstream.Artifact{
		Flavor: flavor,
		Spec:   spec.WithID(id),
		URL:    artifactURL(flavor, id),
		Size:   &size,
		Hash:   &upstream.Digest{Algorithm: upstream.SHA256, Hex: hex.EncodeToString(sum[:])},
	}, nil
}

func (r *stubResolver) resolveCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.resolve
}

// stubFetcher returns the catalogue body for a URL unless it is overridden.
type stubFetcher struct {
	mu       sync.Mutex
	override map[string][]byte
	calls    []string
}

func (f *stubFetcher) FetchAndVerify(_ context.Context, url string, size *uint64, digest *upstream.Digest) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, url)

	body, ok := f.override[url]
	if !ok {
		body = bodyForURL(url)
	}

	if err := artifact.Verify(body, size, digest); err != nil {
		return nil, err
	}

	return body, nil
}

func (f *stubFetcher) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

func bodyForURL(url string) []byte {
	for _, flavor := range domain.Flavors() {
		for _, id := range []string{"1.19.4", "1.20.1", "1.20.4", "24w14a"} {
			if artifactURL(flavor, id) == url {
				return jarFor(flavor, id)
			}
		}
	}

	return []byte("unknown")
}

// faultyRepo injects registry failures around a real file repository.
type faultyRepo struct {
	*registry.FileRepository

	replaceErr error
	addErr     error
	onFailure  func()
}

func (r *faultyRepo) Replace(ctx context.Context, name string, inst *domain.Instance) error {
	if r.replaceErr != nil {
		if r.onFailure != nil {
			r.onFailure()
		}

		return r.replaceErr
	}

	return r.FileRepository.Replace(ctx, name, inst)
}

func (r *faultyRepo) Add(ctx context.Context, inst *domain.Instance) error {
	if r.addErr != nil {
		if r.onFailure != nil {
			r.onFailure()
		}

		return r.addErr
	}

	return r.FileRepository.Add(ctx, inst)
}

type harness struct {
	svc      *Service
	repo     *faultyRepo
	resolver *stubResolver
	fetcher  *stubFetcher
	root     string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dataDir := t.TempDir()
	h := &harness{
		repo:     &faultyRepo{FileRepository: registry.NewFileRepository(filepath.Join(dataDir, "servers.lock"))},
		resolver: newStubResolver(),
		fetcher:  &stubFetcher{override: make(map[string][]byte)},
		root:     filepath.Join(dataDir, "servers"),
	}

	svc, err := New(Options{
		Registry:   h.repo,
		Resolver:   h.resolver,
		Fetcher:    h.fetcher,
		Backups:    backup.NewManager(backup.WithClock(func() time.Time { return testNow })),
		ServersDir: h.root,
		Clock:      func() time.Time { return testNow },
	})
	require.NoError(t, err)

	h.svc = svc

	return h
}

// seed registers an existing instance with an artifact on disk.
func (h *harness) seed(t *testing.T, name, version string, flavor domain.Flavor) *domain.Instance {
	t.Helper()

	inst := domain.New(name, h.root, version, flavor, testNow.Add(-time.Hour))
	require.NoError(t, os.MkdirAll(inst.Dir(), 0o755))
	require.NoError(t, os.WriteFile(inst.ArtifactPath(), []byte("old "+version), 0o644))
	require.NoError(t, h.repo.Add(context.Background(), inst))

	return inst
}

func readArtifact(t *testing.T, inst *domain.Instance) []byte {
	t.Helper()

	data, err := os.ReadFile(inst.ArtifactPath())
	require.NoError(t, err)

	return data
}

// TestNew_RequiresCollaborators rejects incomplete wiring.
func TestNew_RequiresCollaborators(t *testing.T) {
	t.Parallel()

	_, err := New(Options{})
	require.ErrorIs(t, err, errMissingDependency)
}

// TestCreate installs a verified artifact, writes the EULA and records the resolved version.
func TestCreate(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	inst, err := h.svc.Create(ctx, CreateOptions{
		Name:       "survival",
		Version:    "release-latest",
		Flavor:     domain.Paper,
		AcceptEULA: true,
	})
	require.NoError(t, err)
	require.Equal(t, "release-1.20.1", inst.Version)
	require.Equal(t, filepath.Join(h.root, "survival"), inst.Dir())
	require.True(t, inst.EULA)
	require.Equal(t, jarFor(domain.Paper, "1.20.1"), readArtifact(t, inst))
	require.FileExists(t, filepath.Join(inst.Dir(), "eula.txt"))

	stored, err := h.repo.Find(ctx, "survival")
	require.NoError(t, err)
	require.Equal(t, inst.ID, stored.ID)
	require.Equal(t, testNow, stored.CreatedAt)
}

// TestCreate_WithoutEULA leaves the agreement to the user.
func TestCreate_WithoutEULA(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	inst, err := h.svc.Create(context.Background(), CreateOptions{Name: "s", Version: "1.20.4", Flavor: domain.Vanilla})
	require.NoError(t, err)
	require.False(t, inst.EULA)
	require.NoFileExists(t, filepath.Join(inst.Dir(), "eula.txt"))
}

// TestCreate_Rejections validates before touching the filesystem.
func TestCreate_Rejections(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	h.seed(t, "taken", "release-1.20.1", domain.Vanilla)

	_, err := h.svc.Create(ctx, CreateOptions{Name: "taken", Version: "1.20.1", Flavor: domain.Vanilla})
	require.ErrorIs(t, err, registry.ErrNameCollision)

	_, err = h.svc.Create(ctx, CreateOptions{Name: "a/b", Version: "1.20.1", Flavor: domain.Vanilla})
	require.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = h.svc.Create(ctx, CreateOptions{Name: "x", Version: "1.20.1", Flavor: "forge"})
	require.ErrorIs(t, err, domain.ErrUnknownFlavor)

	require.NoError(t, os.MkdirAll(filepath.Join(h.root, "stray"), 0o755))

	_, err = h.svc.Create(ctx, CreateOptions{Name: "stray", Version: "1.20.1", Flavor: domain.Vanilla})
	require.ErrorIs(t, err, ErrTargetExists)

	_, err = h.svc.Create(ctx, CreateOptions{Name: "ghost", Version: "release-9.9.9", Flavor: domain.Vanilla})
	require.ErrorIs(t, err, upstream.ErrVersionNotFound)
	require.NoDirExists(t, filepath.Join(h.root, "ghost"))
}

// TestCreate_IntegrityFailureLeavesNothing never creates the directory for a bad download.
func TestCreate_IntegrityFailureLeavesNothing(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.fetcher.override[artifactURL(domain.Vanilla, "1.20.1")] = []byte("tampered")

	_, err := h.svc.Create(context.Background(), CreateOptions{Name: "s", Version: "release-latest", Flavor: domain.Vanilla})
	require.ErrorIs(t, err, artifact.ErrIntegrityMismatch)
	require.NoDirExists(t, filepath.Join(h.root, "s"))

	instances, err := h.svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, instances)
}

// TestCreate_RegistryFailureRemovesDirectory compensates the directory step.
func TestCreate_RegistryFailureRemovesDirectory(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.repo.addErr = errors.New("disk full")

	_, err := h.svc.Create(context.Background(), CreateOptions{Name: "s", Version: "1.20.1", Flavor: domain.Fabric})
	require.ErrorContains(t, err, "disk full")
	require.NotErrorIs(t, err, ErrDiverged)
	require.NoDirExists(t, filepath.Join(h.root, "s"))
	require.NoDirExists(t, h.root)
}

// TestUpdate_AlreadyCurrent fails before any artifact download.
func TestUpdate_AlreadyCurrent(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	inst := h.seed(t, "survival", "release-1.20.1", domain.Vanilla)

	_, err := h.svc.Update(context.Background(), "survival", UpdateOptions{Version: "release-latest"})
	require.ErrorIs(t, err, ErrAlreadyCurrent)

	_, err = h.svc.Update(context.Background(), "survival", UpdateOptions{})
	require.ErrorIs(t, err, ErrAlreadyCurrent)

	require.Empty(t, h.fetcher.fetched())
	require.Zero(t, h.resolver.resolveCalls())
	require.Equal(t, []byte("old release-1.20.1"), readArtifact(t, inst))
}

// TestUpdate replaces the artifact and the record.
func TestUpdate(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	inst := h.seed(t, "survival", "release-1.19.4", domain.Vanilla)

	updated, err := h.svc.Update(ctx, "survival", UpdateOptions{Flavor: domain.Paper})
	require.NoError(t, err)
	require.Equal(t, "release-1.20.1", updated.Version)
	require.Equal(t, domain.Paper, updated.Flavor)
	require.Equal(t, inst.ID, updated.ID)
	require.Equal(t, jarFor(domain.Paper, "1.20.1"), readArtifact(t, inst))

	stored, err := h.repo.Find(ctx, "survival")
	require.NoError(t, err)
	require.Equal(t, "release-1.20.1", stored.Version)
	require.Equal(t, domain.Paper, stored.Flavor)
	require.Equal(t, testNow, stored.UpdatedAt)

	// Same version, other flavor is not a no-op.
	_, err = h.svc.Update(ctx, "survival", UpdateOptions{Flavor: domain.Vanilla})
	require.NoError(t, err)

	// Downgrades are allowed.
	downgraded, err := h.svc.Update(ctx, "survival", UpdateOptions{Version: "1.19.4"})
	require.NoError(t, err)
	require.Equal(t, "release-1.19.4", downgraded.Version)
}

// TestUpdate_MissingDirectory surfaces divergence instead of recreating the instance.
func TestUpdate_MissingDirectory(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	inst := h.seed(t, "gone", "release-1.19.4", domain.Vanilla)
	require.NoError(t, os.RemoveAll(inst.Dir()))

	_, err := h.svc.Update(context.Background(), "gone", UpdateOptions{})
	require.ErrorIs(t, err, ErrInstanceMissing)
	require.Empty(t, h.fetcher.fetched())
}

// TestUpdateAll_IsolatesFailures updates instances one and three and reports instance two.
func TestUpdateAll_IsolatesFailures(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	first := h.seed(t, "a-first", "release-1.19.4", domain.Vanilla)
	second := h.seed(t, "b-second", "release-1.19.4", domain.Paper)
	third := h.seed(t, "c-third", "release-1.19.4", domain.Fabric)

	h.fetcher.override[artifactURL(domain.Paper, "1.20.1")] = []byte("truncated")

	report, err := h.svc.UpdateAll(ctx, UpdateOptions{Version: "release-1.20.1"})
	require.NoError(t, err)
	require.Equal(t, []string{"a-first", "c-third"}, report.Updated)
	require.Empty(t, report.Current)
	require.Len(t, report.Failed, 1)
	require.ErrorIs(t, report.Failed["b-second"], artifact.ErrIntegrityMismatch)
	require.ErrorIs(t, report.Err(), artifact.ErrIntegrityMismatch)
	require.ErrorContains(t, report.Err(), "b-second")

	require.Equal(t, jarFor(domain.Vanilla, "1.20.1"), readArtifact(t, first))
	require.Equal(t, []byte("old release-1.19.4"), readArtifact(t, second))
	require.Equal(t, jarFor(domain.Fabric, "1.20.1"), readArtifact(t, third))

	for name, want := range map[string]string{
		"a-first":  "release-1.20.1",
		"b-second": "release-1.19.4",
		"c-third":  "release-1.20.1",
	} {
		stored, err := h.repo.Find(ctx, name)
		require.NoError(t, err)
		require.Equal(t, want, stored.Version, name)
	}

	// A second pass only retries the failed instance.
	delete(h.fetcher.override, artifactURL(domain.Paper, "1.20.1"))

	report, err = h.svc.UpdateAll(ctx, UpdateOptions{Version: "release-1.20.1"})
	require.NoError(t, err)
	require.Equal(t, []string{"b-second"}, report.Updated)
	require.Equal(t, []string{"a-first", "c-third"}, report.Current)
	require.NoError(t, report.Err())
}

// TestRename moves the directory and the record while keeping the identity.
func TestRename(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	inst := h.seed(t, "old", "release-1.20.1", domain.Vanilla)

	renamed, err := h.svc.Rename(ctx, "old", "new")
	require.NoError(t, err)
	require.Equal(t, inst.ID, renamed.ID)
	require.NoDirExists(t, inst.Dir())
	require.FileExists(t, renamed.ArtifactPath())

	_, err = h.repo.Find(ctx, "old")
	require.ErrorIs(t, err, registry.ErrNotFound)

	got, err := h.svc.Get(ctx, "new")
	require.NoError(t, err)
	require.Equal(t, renamed.Dir(), got.Dir())
}

// TestRename_Rejections validates name and destination before mutating anything.
func TestRename_Rejections(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	h.seed(t, "one", "release-1.20.1", domain.Vanilla)
	h.seed(t, "two", "release-1.20.1", domain.Vanilla)

	_, err := h.svc.Rename(ctx, "one", "two")
	require.ErrorIs(t, err, registry.ErrNameCollision)

	_, err = h.svc.Rename(ctx, "missing", "three")
	require.ErrorIs(t, err, registry.ErrNotFound)

	_, err = h.svc.Rename(ctx, "one", "")
	require.ErrorIs(t, err, domain.ErrInvalidName)

	require.NoError(t, os.MkdirAll(filepath.Join(h.root, "squatter"), 0o755))

	_, err = h.svc.Rename(ctx, "one", "squatter")
	require.ErrorIs(t, err, ErrTargetExists)
	require.DirExists(t, filepath.Join(h.root, "one"))
}

// TestRename_RegistryFailureRollsBack renames the directory back when the record cannot be written.
func TestRename_RegistryFailureRollsBack(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	inst := h.seed(t, "old", "release-1.20.1", domain.Vanilla)
	h.repo.replaceErr = errors.New("registry write failed")

	_, err := h.svc.Rename(ctx, "old", "new")
	require.ErrorContains(t, err, "registry write failed")
	require.NotErrorIs(t, err, ErrDiverged)
	require.DirExists(t, inst.Dir())
	require.NoDirExists(t, filepath.Join(h.root, "new"))

	_, err = h.svc.Get(ctx, "old")
	require.NoError(t, err)
}

// TestRename_Diverged reports an unrecoverable mismatch and leaves it detectable.
func TestRename_Diverged(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	inst := h.seed(t, "old", "release-1.20.1", domain.Vanilla)

	h.repo.replaceErr = errors.New("registry write failed")
	h.repo.onFailure = func() {
		// Something else claims the old path before the rollback runs.
		require.NoError(t, os.WriteFile(inst.Dir(), []byte("squatter"), 0o644))
	}

	_, err := h.svc.Rename(ctx, "old", "new")
	require.ErrorIs(t, err, ErrDiverged)
	require.DirExists(t, filepath.Join(h.root, "new"))

	got, err := h.svc.Get(ctx, "old")
	require.ErrorIs(t, err, ErrInstanceMissing)
	require.Nil(t, got)
}

// TestMove relocates the directory under a new root.
func TestMove(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	inst := h.seed(t, "survival", "release-1.20.1", domain.Vanilla)
	newRoot := filepath.Join(t.TempDir(), "elsewhere")

	moved, err := h.svc.Move(ctx, "survival", newRoot)
	require.NoError(t, err)
	require.Equal(t, newRoot, moved.Path)
	require.NoDirExists(t, inst.Dir())
	require.Equal(t, []byte("old release-1.20.1"), readArtifact(t, moved))

	stored, err := h.repo.Find(ctx, "survival")
	require.NoError(t, err)
	require.Equal(t, newRoot, stored.Path)

	_, err = h.svc.Move(ctx, "survival", newRoot)
	require.ErrorIs(t, err, errSameLocation)
}

// TestMove_RegistryFailureRollsBack puts the directory back under the old root.
func TestMove_RegistryFailureRollsBack(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	inst := h.seed(t, "survival", "release-1.20.1", domain.Vanilla)
	h.repo.replaceErr = errors.New("boom")
	parent := t.TempDir()
	newRoot := filepath.Join(parent, "elsewhere", "deeper")

	_, err := h.svc.Move(context.Background(), "survival", newRoot)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDiverged)
	require.DirExists(t, inst.Dir())
	require.NoDirExists(t, filepath.Join(parent, "elsewhere"))
	require.DirExists(t, parent)
}

// TestMkdirStep_UndoKeepsExistingDirectories removes only what the step created.
func TestMkdirStep_UndoKeepsExistingDirectories(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	parent := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(parent, "a"), 0o755))

	st := mkdirStep("create root", filepath.Join(parent, "a", "b", "c"))
	require.NoError(t, st.do(ctx))
	require.DirExists(t, filepath.Join(parent, "a", "b", "c"))

	require.NoError(t, st.undo(ctx))
	require.NoDirExists(t, filepath.Join(parent, "a", "b"))
	require.DirExists(t, filepath.Join(parent, "a"))

	existing := mkdirStep("create root", parent)
	require.NoError(t, existing.do(ctx))
	require.NoError(t, existing.undo(ctx))
	require.DirExists(t, parent)
}

// TestCopy duplicates files and configuration under a fresh identity.
func TestCopy(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	inst := h.seed(t, "survival", "release-1.20.1", domain.Paper)
	require.NoError(t, os.MkdirAll(filepath.Join(inst.Dir(), "world"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inst.Dir(), "world", "level.dat"), []byte("lvl"), 0o644))

	copied, err := h.svc.Copy(ctx, "survival", "creative")
	require.NoError(t, err)
	require.NotEqual(t, inst.ID, copied.ID)
	require.Equal(t, inst.Path, copied.Path)
	require.Equal(t, inst.Flavor, copied.Flavor)
	require.FileExists(t, filepath.Join(copied.Dir(), "world", "level.dat"))
	require.FileExists(t, inst.ArtifactPath())

	instances, err := h.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, instances, 2)
	require.Equal(t, "creative", instances[0].Name)
	require.Equal(t, "survival", instances[1].Name)
}

// TestCopy_RegistryFailureRemovesCopy drops the copied directory.
func TestCopy_RegistryFailureRemovesCopy(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seed(t, "survival", "release-1.20.1", domain.Paper)
	h.repo.addErr = errors.New("boom")

	_, err := h.svc.Copy(context.Background(), "survival", "creative")
	require.Error(t, err)
	require.NoDirExists(t, filepath.Join(h.root, "creative"))
}

// TestRemove deletes only the instance directory and its record.
func TestRemove(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	keep := h.seed(t, "keep", "release-1.20.1", domain.Vanilla)
	drop := h.seed(t, "drop", "release-1.20.1", domain.Vanilla)

	require.NoError(t, h.svc.Remove(ctx, "drop"))
	require.NoDirExists(t, drop.Dir())
	require.DirExists(t, keep.Dir())

	_, err := h.repo.Find(ctx, "drop")
	require.ErrorIs(t, err, registry.ErrNotFound)

	require.ErrorIs(t, h.svc.Remove(ctx, "drop"), registry.ErrNotFound)
}

// TestSubtreeDelegation routes backups to the instance directory.
func TestSubtreeDelegation(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	inst := h.seed(t, "survival", "release-1.20.1", domain.Vanilla)

	level := filepath.Join(inst.Dir(), "world", "level.dat")
	require.NoError(t, os.MkdirAll(filepath.Dir(level), 0o755))
	require.NoError(t, os.WriteFile(level, []byte("v1"), 0o644))

	path, err := h.svc.Backup(ctx, "survival", backup.World, "before update")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(inst.Dir(), "backups", "world-20240504-100000-before-update"), path)

	require.NoError(t, os.WriteFile(level, []byte("v2"), 0o644))
	require.NoError(t, h.svc.Restore(ctx, "survival", backup.World, filepath.Base(path)))

	data, err := os.ReadFile(level)
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), data)

	names, err := h.svc.Backups(ctx, "survival", backup.World)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Base(path)}, names)

	external := filepath.Join(t.TempDir(), "imported")
	require.NoError(t, os.MkdirAll(external, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(external, "level.dat"), []byte("imported"), 0o644))
	require.NoError(t, h.svc.SetSubtree(ctx, "survival", backup.World, external))

	data, err = os.ReadFile(level)
	require.NoError(t, err)
	require.Equal(t, []byte("imported"), data)
}
