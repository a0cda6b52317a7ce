package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/wyomingwade/slapaman/internal/artifact"
	"github.com/wyomingwade/slapaman/internal/backup"
	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
	"github.com/wyomingwade/slapaman/internal/logger"
	"github.com/wyomingwade/slapaman/internal/repository/registry"
	"github.com/wyomingwade/slapaman/internal/upstream"
)

var (
	// ErrAlreadyCurrent is returned by Update when the instance is already at the target.
	ErrAlreadyCurrent = errors.New("instance is already current")
	// ErrDiverged is returned when a failed operation could not be rolled back and
	// the filesystem no longer matches the registry.
	ErrDiverged = errors.New("filesystem and registry diverged")
	// ErrInstanceMissing is returned for a record whose directory is gone.
	ErrInstanceMissing = errors.New("instance directory is missing")
	// ErrTargetExists is returned when the destination directory is already taken.
	ErrTargetExists = errors.New("target directory already exists")

	errMissingDependency = errors.New("missing dependency")
	errSameLocation      = errors.New("instance is already there")
)

// Resolver turns version specs into downloadable artifacts.
type Resolver interface {
	ResolveID(ctx context.Context, spec domain.VersionSpec) (string, error)
	Resolve(ctx context.Context, flavor domain.Flavor, spec domain.VersionSpec, fabric upstream.FabricOptions) (upstream.Artifact, error)
}

// Fetcher downloads and verifies artifacts.
type Fetcher interface {
	FetchAndVerify(ctx context.Context, url string, size *uint64, digest *upstream.Digest) ([]byte, error)
}

// PersistFunc installs artifact bytes at path.
type PersistFunc func(ctx context.Context, path string, data []byte, digest *upstream.Digest, overwrite bool) error

// Options are the collaborators of a Service.
type Options struct {
	Registry registry.Repository
	Resolver Resolver
	Fetcher  Fetcher
	Backups  *backup.Manager
	// ServersDir is the root used when Create is not given one.
	ServersDir string
	// Fabric holds the default loader and installer versions.
	Fabric upstream.FabricOptions
	// Clock defaults to time.Now.
	Clock func() time.Time
	// Persist defaults to artifact.Persist.
	Persist PersistFunc
}

// Service implements the instance lifecycle.
type Service struct {
	registry   registry.Repository
	resolver   Resolver
	fetcher    Fetcher
	backups    *backup.Manager
	serversDir string
	fabric     upstream.FabricOptions
	clock      func() time.Time
	persist    PersistFunc
}

// New validates opts and builds a Service.
func New(opts Options) (*Service, error) {
	switch {
	case opts.Registry == nil:
		return nil, fmt.Errorf("registry: %w", errMissingDependency)
	case opts.Resolver == nil:
		return nil, fmt.Errorf("resolver: %w", errMissingDependency)
	case opts.Fetcher == nil:
		return nil, fmt.Errorf("fetcher: %w", errMissingDependency)
	}

	s := &Service{
		registry:   opts.Registry,
		resolver:   opts.Resolver,
		fetcher:    opts.Fetcher,
		backups:    opts.Backups,
		serversDir: opts.ServersDir,
		fabric:     opts.Fabric,
		clock:      opts.Clock,
		persist:    opts.Persist,
	}

	if s.backups == nil {
		s.backups = backup.NewManager()
	}

	if s.clock == nil {
		s.clock = time.Now
	}

	if s.persist == nil {
		s.persist = artifact.Persist
	}

	return s, nil
}

// Get returns the record of name after checking that its directory exists.
func (s *Service) Get(ctx context.Context, name string) (*domain.Instance, error) {
	inst, err := s.registry.Find(ctx, name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(inst.Dir())
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s at %s: %w", name, inst.Dir(), ErrInstanceMissing)
	}

	return inst, nil
}

// List returns every record sorted by name.
func (s *Service) List(ctx context.Context) ([]*domain.Instance, error) {
	instances, err := s.registry.Load(ctx)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(instances, func(a, b *domain.Instance) int {
		return strings.Compare(a.Name, b.Name)
	})

	return instances, nil
}

// Remove deletes the instance directory and then its record.
func (s *Service) Remove(ctx context.Context, name string) error {
	ctx = logger.WithName(ctx, "remove")

	inst, err := s.registry.Find(ctx, name)
	if err != nil {
		return err
	}

	if _, err = os.Stat(inst.Dir()); errors.Is(err, os.ErrNotExist) {
		logger.WarnKV(ctx, "Instance directory already gone", "name", name, "dir", inst.Dir())
	}

	if err = os.RemoveAll(inst.Dir()); err != nil {
		return fmt.Errorf("remove %s: %w", inst.Dir(), err)
	}

	if err = s.registry.Remove(ctx, name); err != nil {
		return fmt.Errorf("%w: remove record %s: %w", ErrDiverged, name, err)
	}

	logger.InfoKV(ctx, "Instance removed", "name", name, "dir", inst.Dir())

	return nil
}

// checkFree fails when name is already registered or dir is already taken.
func (s *Service) checkFree(ctx context.Context, name, dir string) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}

	_, err := s.registry.Find(ctx, name)
	switch {
	case err == nil:
		return fmt.Errorf("%s: %w", name, registry.ErrNameCollision)
	case !errors.Is(err, registry.ErrNotFound):
		return err
	}

	if _, err = os.Lstat(dir); err == nil {
		return fmt.Errorf("%s: %w", dir, ErrTargetExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", dir, err)
	}

	return nil
}

func (s *Service) now() time.Time {
	return s.clock().UTC()
}

func absRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", root, err)
	}

	return abs, nil
}
