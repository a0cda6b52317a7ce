package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
)

// paperDefaultDownload is the download key of the runnable server jar.
const paperDefaultDownload = "server:default"

type paperBuild struct {
	ID        int                      `json:"id"`
	Channel   string                   `json:"channel"`
	Downloads map[string]paperDownload `json:"downloads"`
}

type paperDownload struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Size      uint64 `json:"size"`
	Checksums struct {
		SHA256 string `json:"sha256"`
	} `json:"checksums"`
}

func (r *Resolver) paperBuildsURL(id string) string {
	return strings.TrimRight(r.endpoints.PaperAPI, "/") +
		"/v3/projects/paper/versions/" + url.PathEscape(id) + "/builds"
}

// resolvePaper queries the build list of spec.ID and takes the first build.
// The API lists newest first; nothing here checks that ordering.
func (r *Resolver) resolvePaper(ctx context.Context, spec domain.VersionSpec) (Artifact, error) {
	var builds []paperBuild

	err := r.client.GetJSON(ctx, r.paperBuildsURL(spec.ID), &builds)
	if isNotFound(err) {
		return Artifact{}, fmt.Errorf("%s: %w", spec.ID, ErrVersionNotFound)
	}

	if err != nil {
		return Artifact{}, fmt.Errorf("fetch paper builds: %w", err)
	}

	if len(builds) == 0 {
		return Artifact{}, fmt.Errorf("%s has no builds: %w", spec.ID, ErrVersionNotFound)
	}

	newest := builds[0]

	download, ok := newest.Downloads[paperDefaultDownload]
	if !ok || download.URL == "" {
		return Artifact{}, fmt.Errorf("build %d has no %s download: %w",
			newest.ID, paperDefaultDownload, ErrUpstreamUnavailable)
	}

	size := download.Size

	artifact := Artifact{
		Spec: spec,
		URL:  download.URL,
		Size: &size,
	}

	if download.Checksums.SHA256 != "" {
		artifact.Hash = &Digest{Algorithm: SHA256, Hex: download.Checksums.SHA256}
	}

	return artifact, nil
}
