package cmd

import (
	"context"
	"fmt"

	"github.com/wyomingwade/slapaman/internal/artifact"
	"github.com/wyomingwade/slapaman/internal/backup"
	"github.com/wyomingwade/slapaman/internal/config"
	"github.com/wyomingwade/slapaman/internal/logger"
	"github.com/wyomingwade/slapaman/internal/repository/registry"
	"github.com/wyomingwade/slapaman/internal/service/lifecycle"
	"github.com/wyomingwade/slapaman/internal/upstream"
)

// application holds what every subcommand needs.
type application struct {
	cfg       *config.Config
	lifecycle *lifecycle.Service
}

// newApplication loads settings, configures logging and wires the services.
func newApplication(ctx context.Context) (*application, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath, dataDir)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	level := cfg.LogLevel
	if verbosity > 0 {
		level = logger.LevelFromVerbosity(verbosity).String()
	}

	if logLevel != "" {
		level = logLevel
	}

	if err = logger.Setup(logger.Options{Level: level, File: cfg.LogFile, FileLevel: cfg.LogFileLevel}); err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Settings loaded",
		"data_dir", cfg.DataDir,
		"registry", cfg.RegistryFile,
		"servers_dir", cfg.ServersDir,
	)

	client := upstream.NewClient(
		upstream.WithUserAgent(cfg.UserAgent),
		upstream.WithTimeout(cfg.HTTPTimeout),
	)

	fabric := upstream.FabricOptions{
		Loader:    cfg.FabricLoaderVersion,
		Installer: cfg.FabricInstallerVersion,
	}

	resolver := upstream.NewResolver(client, upstream.Endpoints{
		VanillaManifest: cfg.VanillaManifestURL,
		PaperAPI:        cfg.PaperAPIURL,
		FabricMeta:      cfg.FabricMetaURL,
	}, fabric)

	svc, err := lifecycle.New(lifecycle.Options{
		Registry:   registry.NewFileRepository(cfg.RegistryFile),
		Resolver:   resolver,
		Fetcher:    artifact.NewFetcher(client),
		Backups:    backup.NewManager(),
		ServersDir: cfg.ServersDir,
		Fabric:     fabric,
	})
	if err != nil {
		return nil, err
	}

	return &application{cfg: cfg, lifecycle: svc}, nil
}
