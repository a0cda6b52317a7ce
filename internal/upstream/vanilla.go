package upstream

import (
	"context"
	"fmt"

	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
	"github.com/wyomingwade/slapaman/internal/logger"
)

type vanillaManifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []vanillaVersion `json:"versions"`
}

type vanillaVersion struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

type vanillaPackage struct {
	Downloads struct {
		Server *struct {
			URL  string `json:"url"`
			Size uint64 `json:"size"`
			SHA1 string `json:"sha1"`
		} `json:"server"`
	} `json:"downloads"`
}

func (m *vanillaManifest) latestID(kind domain.Kind) (string, error) {
	id := m.Latest.Release
	if kind == domain.Snapshot {
		id = m.Latest.Snapshot
	}

	if id == "" {
		return "", fmt.Errorf("manifest has no latest %s: %w", kind, ErrUpstreamUnavailable)
	}

	return id, nil
}

func (m *vanillaManifest) find(id string) (vanillaVersion, bool) {
	for _, v := range m.Versions {
		if v.ID == id {
			return v, true
		}
	}

	return vanillaVersion{}, false
}

func (r *Resolver) fetchVanillaManifest(ctx context.Context) (*vanillaManifest, error) {
	var manifest vanillaManifest
	if err := r.client.GetJSON(ctx, r.endpoints.VanillaManifest, &manifest); err != nil {
		return nil, fmt.Errorf("fetch version manifest: %w", err)
	}

	return &manifest, nil
}

// resolveVanilla needs two round trips: the manifest, then the version metadata.
func (r *Resolver) resolveVanilla(ctx context.Context, spec domain.VersionSpec) (Artifact, error) {
	manifest, err := r.fetchVanillaManifest(ctx)
	if err != nil {
		return Artifact{}, err
	}

	id := spec.ID
	if spec.IsLatest() {
		if id, err = manifest.latestID(spec.Kind); err != nil {
			return Artifact{}, err
		}
	}

	entry, ok := manifest.find(id)
	if !ok {
		return Artifact{}, fmt.Errorf("%s: %w", id, ErrVersionNotFound)
	}

	if entry.URL == "" {
		return Artifact{}, fmt.Errorf("%s has no metadata URL: %w", id, ErrUpstreamUnavailable)
	}

	if entry.Type != "" && entry.Type != string(spec.Kind) {
		logger.DebugKV(ctx, "Version kind differs from manifest", "id", id, "requested", spec.Kind, "manifest", entry.Type)
	}

	var pkg vanillaPackage
	if err = r.client.GetJSON(ctx, entry.URL, &pkg); err != nil {
		return Artifact{}, fmt.Errorf("fetch version metadata: %w", err)
	}

	server := pkg.Downloads.Server
	if server == nil || server.URL == "" {
		return Artifact{}, fmt.Errorf("%s has no server download: %w", id, ErrVersionNotFound)
	}

	size := server.Size

	artifact := Artifact{
		Spec: spec.WithID(id),
		URL:  server.URL,
		Size: &size,
	}

	if server.SHA1 != "" {
		artifact.Hash = &Digest{Algorithm: SHA1, Hex: server.SHA1}
	}

	return artifact, nil
}
