package upstream

import (
	"net/url"
	"strings"

	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
)

// resolveFabric builds the loader server URL. Fabric publishes no size or hash,
// so the artifact is accepted on a 2xx response alone.
func (r *Resolver) resolveFabric(spec domain.VersionSpec, opts FabricOptions) (Artifact, error) {
	loader := firstNonEmpty(opts.Loader, r.fabric.Loader)
	installer := firstNonEmpty(opts.Installer, r.fabric.Installer)

	link := strings.TrimRight(r.endpoints.FabricMeta, "/") +
		"/v2/versions/loader/" +
		url.PathEscape(spec.ID) + "/" +
		url.PathEscape(loader) + "/" +
		url.PathEscape(installer) + "/server/jar"

	return Artifact{
		Spec: spec,
		URL:  link,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
