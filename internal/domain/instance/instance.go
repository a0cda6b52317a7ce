package instance

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArtifactFilename is the server artifact inside an instance directory.
const ArtifactFilename = "server.jar"

var (
	// ErrInvalidName is returned for names that cannot be used as a directory name.
	ErrInvalidName = errors.New("invalid instance name")
	// ErrUnresolvedVersion is returned when a record would store "latest".
	ErrUnresolvedVersion = errors.New("version must be resolved")
)

// Instance is one managed server deployment.
//
// The configuration blobs are opaque to slapaman and are carried through
// unchanged. JSON names match the servers.lock format written by earlier releases.
type Instance struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Version string `json:"version"`
	Flavor  Flavor `json:"flavor"`

	BannedIPs        json.RawMessage `json:"banned_ips"`
	BannedPlayers    json.RawMessage `json:"banned_players"`
	EULA             bool            `json:"eula"`
	Whitelist        json.RawMessage `json:"whitelist"`
	Ops              json.RawMessage `json:"ops"`
	Permissions      json.RawMessage `json:"permissions"`
	ServerProperties json.RawMessage `json:"server_properties"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// New returns a freshly identified instance record.
func New(name, root, version string, flavor Flavor, now time.Time) *Instance {
	return &Instance{
		ID:        uuid.NewString(),
		Name:      name,
		Path:      root,
		Version:   version,
		Flavor:    flavor,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// Duplicate returns a deep copy under a new name with a fresh identity.
func (i *Instance) Duplicate(name string, now time.Time) *Instance {
	dup := i.Clone()
	dup.ID = uuid.NewString()
	dup.Name = name
	dup.CreatedAt = now.UTC()
	dup.UpdatedAt = now.UTC()

	return dup
}

// Dir is the live instance directory.
func (i *Instance) Dir() string {
	return filepath.Join(i.Path, i.Name)
}

// ArtifactPath is the location of the runnable server artifact.
func (i *Instance) ArtifactPath() string {
	return filepath.Join(i.Dir(), ArtifactFilename)
}

// VersionSpec returns the recorded version as a spec.
func (i *Instance) VersionSpec() VersionSpec {
	return ParseVersionSpec(i.Version)
}

// Clone returns a deep copy of the record.
func (i *Instance) Clone() *Instance {
	if i == nil {
		return nil
	}

	cloned := *i
	cloned.BannedIPs = cloneRaw(i.BannedIPs)
	cloned.BannedPlayers = cloneRaw(i.BannedPlayers)
	cloned.Whitelist = cloneRaw(i.Whitelist)
	cloned.Ops = cloneRaw(i.Ops)
	cloned.Permissions = cloneRaw(i.Permissions)
	cloned.ServerProperties = cloneRaw(i.ServerProperties)

	return &cloned
}

// Validate checks the record invariants that do not need the filesystem.
func (i *Instance) Validate() error {
	if err := ValidateName(i.Name); err != nil {
		return err
	}

	if strings.Contains(i.Version, Latest) {
		return fmt.Errorf("%s: %w", i.Version, ErrUnresolvedVersion)
	}

	if !i.Flavor.Valid() {
		return fmt.Errorf("%q: %w", i.Flavor, ErrUnknownFlavor)
	}

	return nil
}

// ValidateName rejects names that would escape or confuse the instance root.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("empty name: %w", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%q contains a path separator: %w", name, ErrInvalidName)
	default:
		return nil
	}
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}

	return append(json.RawMessage(nil), raw...)
}
