package upstream

import (
	"context"
	"fmt"

	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
	"github.com/wyomingwade/slapaman/internal/logger"
)

// Algorithm names a digest function published by an upstream.
type Algorithm string

const (
	// SHA1 is used by Mojang's version metadata.
	SHA1 Algorithm = "sha1"
	// SHA256 is used by the PaperMC API.
	SHA256 Algorithm = "sha256"
)

// Digest is an expected hash of an artifact.
type Digest struct {
	Algorithm Algorithm
	Hex       string
}

// Artifact is where to download a server and what to expect from it.
// Size and Hash are nil when the backend does not publish them.
type Artifact struct {
	Flavor domain.Flavor
	Spec   domain.VersionSpec
	URL    string
	Size   *uint64
	Hash   *Digest
}

// Version is the canonical resolved version string.
func (a Artifact) Version() string {
	return a.Spec.String()
}

// Endpoints are the upstream base URLs.
type Endpoints struct {
	VanillaManifest string
	PaperAPI        string
	FabricMeta      string
}

// FabricOptions select the Fabric loader and installer. Empty fields use the defaults.
type FabricOptions struct {
	Loader    string
	Installer string
}

// Resolver resolves version specs for every flavor.
type Resolver struct {
	client    *Client
	endpoints Endpoints
	fabric    FabricOptions
}

// NewResolver creates a resolver. fabricDefaults fills FabricOptions left empty by callers.
func NewResolver(client *Client, endpoints Endpoints, fabricDefaults FabricOptions) *Resolver {
	return &Resolver{
		client:    client,
		endpoints: endpoints,
		fabric:    fabricDefaults,
	}
}

// ResolveID returns the concrete game version id of spec.
// Only "latest" needs the network, through the Vanilla manifest pointers.
func (r *Resolver) ResolveID(ctx context.Context, spec domain.VersionSpec) (string, error) {
	if !spec.IsLatest() {
		return spec.ID, nil
	}

	manifest, err := r.fetchVanillaManifest(ctx)
	if err != nil {
		return "", err
	}

	return manifest.latestID(spec.Kind)
}

// Resolve returns the download location of flavor at spec.
//
// For Paper and Fabric a "latest" spec is first pinned through ResolveID, so the
// backend is always queried with a concrete game version.
func (r *Resolver) Resolve(
	ctx context.Context,
	flavor domain.Flavor,
	spec domain.VersionSpec,
	fabric FabricOptions,
) (Artifact, error) {
	if flavor != domain.Vanilla && spec.IsLatest() {
		id, err := r.ResolveID(ctx, spec)
		if err != nil {
			return Artifact{}, err
		}

		spec = spec.WithID(id)
	}

	var (
		artifact Artifact
		err      error
	)

	switch flavor {
	case domain.Vanilla:
		artifact, err = r.resolveVanilla(ctx, spec)
	case domain.Paper:
		artifact, err = r.resolvePaper(ctx, spec)
	case domain.Fabric:
		artifact, err = r.resolveFabric(spec, fabric)
	default:
		return Artifact{}, fmt.Errorf("%q: %w", flavor, domain.ErrUnknownFlavor)
	}

	if err != nil {
		return Artifact{}, fmt.Errorf("resolve %s %s: %w", flavor, spec, err)
	}

	artifact.Flavor = flavor

	logger.DebugKV(ctx, "Resolved artifact",
		"flavor", flavor,
		"version", artifact.Version(),
		"url", artifact.URL,
		"verified", artifact.Size != nil || artifact.Hash != nil,
	)

	return artifact, nil
}
