package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wyomingwade/slapaman/internal/config"
	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
	"github.com/wyomingwade/slapaman/internal/logger"
	"github.com/wyomingwade/slapaman/internal/service/launcher"
	"github.com/wyomingwade/slapaman/internal/upstream"
)

// CreateOptions describe a new instance.
type CreateOptions struct {
	Name string
	// Path is the root directory. Empty uses the configured servers directory.
	Path string
	// Version is a version string such as "release-latest" or "1.20.1".
	Version string
	Flavor  domain.Flavor
	// AcceptEULA writes eula.txt and records the acceptance.
	AcceptEULA bool
	Fabric     upstream.FabricOptions
}

// Create provisions a new instance directory with a verified server artifact
// and registers it.
func (s *Service) Create(ctx context.Context, opts CreateOptions) (*domain.Instance, error) {
	ctx = logger.WithName(ctx, "create")

	root := opts.Path
	if root == "" {
		root = s.serversDir
	}

	root, err := absRoot(root)
	if err != nil {
		return nil, err
	}

	if !opts.Flavor.Valid() {
		return nil, fmt.Errorf("%q: %w", opts.Flavor, domain.ErrUnknownFlavor)
	}

	dir := filepath.Join(root, opts.Name)
	if err = s.checkFree(ctx, opts.Name, dir); err != nil {
		return nil, err
	}

	resolved, err := s.resolver.Resolve(ctx, opts.Flavor, domain.ParseVersionSpec(opts.Version), s.fabricOptions(opts.Fabric))
	if err != nil {
		return nil, err
	}

	data, err := s.fetcher.FetchAndVerify(ctx, resolved.URL, resolved.Size, resolved.Hash)
	if err != nil {
		return nil, err
	}

	inst := domain.New(opts.Name, root, resolved.Version(), opts.Flavor, s.now())
	inst.EULA = opts.AcceptEULA

	if err = inst.Validate(); err != nil {
		return nil, err
	}

	err = runSaga(ctx,
		mkdirStep("create root", root),
		step{
			name: "create directory",
			do: func(context.Context) error {
				return os.Mkdir(dir, config.DefaultDirPermissions)
			},
			undo: func(context.Context) error { return os.RemoveAll(dir) },
		},
		step{
			name: "install artifact",
			do: func(ctx context.Context) error {
				return s.persist(ctx, inst.ArtifactPath(), data, resolved.Hash, false)
			},
		},
		step{
			name: "write eula",
			do: func(context.Context) error {
				if !opts.AcceptEULA {
					return nil
				}

				return launcher.WriteEULA(dir)
			},
		},
		step{
			name: "register instance",
			do:   func(ctx context.Context) error { return s.registry.Add(ctx, inst) },
		},
	)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Instance created",
		"name", inst.Name,
		"dir", inst.Dir(),
		"version", inst.Version,
		"flavor", inst.Flavor,
		"eula", inst.EULA,
	)

	return inst, nil
}

func (s *Service) fabricOptions(opts upstream.FabricOptions) upstream.FabricOptions {
	if opts.Loader == "" {
		opts.Loader = s.fabric.Loader
	}

	if opts.Installer == "" {
		opts.Installer = s.fabric.Installer
	}

	return opts
}
