package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every slapaman command.
type Config struct {
	// DataDir is the application data directory holding the registry and defaults.
	DataDir string `yaml:"data_dir"`
	// ServersDir is the default root for new instances.
	ServersDir string `yaml:"servers_dir"`
	// RegistryFile is the JSON array of known instances.
	RegistryFile string `yaml:"registry_file"`
	// LogLevel is the console log level.
	LogLevel string `yaml:"log_level"`
	// LogFile is an optional rotated JSON log file.
	LogFile string `yaml:"log_file,omitempty"`
	// LogFileLevel is the minimum level written to LogFile.
	LogFileLevel string `yaml:"log_file_level"`
	// UserAgent overrides the client identification header.
	UserAgent string `yaml:"user_agent,omitempty"`
	// HTTPTimeout bounds each upstream request. Zero leaves the transport default.
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	// VanillaManifestURL is the Mojang version manifest.
	VanillaManifestURL string `yaml:"vanilla_manifest_url"`
	// PaperAPIURL is the base URL of the PaperMC fill API.
	PaperAPIURL string `yaml:"paper_api_url"`
	// FabricMetaURL is the base URL of the Fabric meta API.
	FabricMetaURL string `yaml:"fabric_meta_url"`
	// FabricLoaderVersion is used when a Fabric loader is not requested explicitly.
	FabricLoaderVersion string `yaml:"fabric_loader_version"`
	// FabricInstallerVersion is used when a Fabric installer is not requested explicitly.
	FabricInstallerVersion string `yaml:"fabric_installer_version"`
	// DefaultMemory is the heap size given to `run` without --memory, e.g. "2G".
	DefaultMemory string `yaml:"default_memory"`
}

const (
	// DefaultConfigFilename is the settings file name inside the data directory.
	DefaultConfigFilename = "slapaman.yaml"

	// DefaultRegistryFilename is the registry file name inside the data directory.
	DefaultRegistryFilename = "servers.lock"

	// DefaultServersDirname is the default instance root inside the data directory.
	DefaultServersDirname = "servers"

	// DefaultVanillaManifestURL is Mojang's published version manifest.
	DefaultVanillaManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest.json"

	// DefaultPaperAPIURL is the PaperMC downloads service.
	DefaultPaperAPIURL = "https://fill.papermc.io"

	// DefaultFabricMetaURL is the Fabric meta service.
	DefaultFabricMetaURL = "https://meta.fabricmc.net"

	// DefaultFabricLoaderVersion is the loader used when none is given.
	DefaultFabricLoaderVersion = "0.17.3"

	// DefaultFabricInstallerVersion is the installer used when none is given.
	DefaultFabricInstallerVersion = "1.1.0"

	// DefaultMemory is the heap size handed to the server JVM.
	DefaultMemory = "2048M"

	// DefaultLogLevel is the console level when nothing else is configured.
	DefaultLogLevel = "info"

	// DefaultLogFileLevel is the log file level when nothing else is configured.
	DefaultLogFileLevel = "debug"

	// DefaultFilePermissions is the permission used for settings and registry files.
	DefaultFilePermissions = 0o600

	// DefaultDirPermissions is the permission used for created directories.
	DefaultDirPermissions = 0o755

	// appDirname is the per-user directory name.
	appDirname = "slapaman"
	// appVendor is the organisation segment of the data directory.
	appVendor = "wyomingwade"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeTimeout is returned when http_timeout is below zero.
	errNegativeTimeout = errors.New("http timeout must not be negative")
)

// DataDir returns the per-user application data directory for slapaman.
// SLAPAMAN_HOME overrides the platform location.
func DataDir() (string, error) {
	if home := os.Getenv("SLAPAMAN_HOME"); home != "" {
		return filepath.Clean(home), nil
	}

	return platformDataDir(runtime.GOOS, os.Getenv, os.UserHomeDir)
}

// platformDataDir returns the data directory layout shared with earlier releases:
// $XDG_DATA_HOME/slapaman or ~/.local/share/slapaman on Linux,
// ~/Library/Application Support/com.wyomingwade.slapaman on macOS and
// %APPDATA%\wyomingwade\slapaman\data on Windows.
func platformDataDir(goos string, getenv func(string) string, homeDir func() (string, error)) (string, error) {
	switch goos {
	case "windows":
		if appData := getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appVendor, appDirname, "data"), nil
		}
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris", "illumos":
		if xdg := getenv("XDG_DATA_HOME"); filepath.IsAbs(xdg) {
			return filepath.Join(xdg, appDirname), nil
		}
	}

	home, err := homeDir()
	if err != nil {
		return "", fmt.Errorf("locate user data directory: %w", err)
	}

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "com."+appVendor+"."+appDirname), nil
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", appVendor, appDirname, "data"), nil
	default:
		return filepath.Join(home, ".local", "share", appDirname), nil
	}
}

// Default returns settings rooted at dataDir.
func Default(dataDir string) *Config {
	cfg := &Config{DataDir: dataDir}
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from path. A missing file yields defaults rooted at dataDir.
func Load(path, dataDir string) (*Config, error) {
	if path == "" {
		path = filepath.Join(dataDir, DefaultConfigFilename)
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return Default(dataDir), nil
	}

	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Config{DataDir: dataDir}
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks endpoint formatting.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ServersDir == "" && cfg.DataDir != "" {
		cfg.ServersDir = filepath.Join(cfg.DataDir, DefaultServersDirname)
	}

	if cfg.RegistryFile == "" && cfg.DataDir != "" {
		cfg.RegistryFile = filepath.Join(cfg.DataDir, DefaultRegistryFilename)
	}

	setDefault(&cfg.LogLevel, DefaultLogLevel)
	setDefault(&cfg.LogFileLevel, DefaultLogFileLevel)
	setDefault(&cfg.VanillaManifestURL, DefaultVanillaManifestURL)
	setDefault(&cfg.PaperAPIURL, DefaultPaperAPIURL)
	setDefault(&cfg.FabricMetaURL, DefaultFabricMetaURL)
	setDefault(&cfg.FabricLoaderVersion, DefaultFabricLoaderVersion)
	setDefault(&cfg.FabricInstallerVersion, DefaultFabricInstallerVersion)
	setDefault(&cfg.DefaultMemory, DefaultMemory)

	if cfg.HTTPTimeout < 0 {
		return errNegativeTimeout
	}

	endpoints := map[string]string{
		"vanilla manifest": cfg.VanillaManifestURL,
		"paper api":        cfg.PaperAPIURL,
		"fabric meta":      cfg.FabricMetaURL,
	}

	for name, raw := range endpoints {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("invalid %s URL: %w", name, err)
		}
	}

	return nil
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
