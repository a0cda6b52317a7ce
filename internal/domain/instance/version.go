package instance

import (
	"strings"
)

// Kind distinguishes release and snapshot game versions.
type Kind string

const (
	// Release is a published stable version.
	Release Kind = "release"
	// Snapshot is a weekly development version.
	Snapshot Kind = "snapshot"
)

// Latest is the id sentinel resolved to the newest known id of a kind.
const Latest = "latest"

// kindSeparator joins the kind and the id in the canonical form.
const kindSeparator = "-"

// VersionSpec is a requested game version. It is an immutable value.
type VersionSpec struct {
	Kind Kind
	ID   string
}

// NewVersionSpec builds a spec from its parts.
func NewVersionSpec(kind Kind, id string) VersionSpec {
	return VersionSpec{Kind: kind, ID: id}
}

// ParseVersionSpec reads a user supplied version string.
//
// Canonical strings ("release-1.20.1", "snapshot-25w17a", "release-latest") are
// split at the first separator so ids that contain "-" or "snapshot" keep their
// full text. Anything else falls back to a heuristic: the kind is Snapshot iff
// the text contains "snapshot" and the id is what follows the last "-", so a bare
// "1.20.1" is a release.
func ParseVersionSpec(s string) VersionSpec {
	s = strings.TrimSpace(s)

	for _, kind := range []Kind{Release, Snapshot} {
		if id, ok := strings.CutPrefix(s, string(kind)+kindSeparator); ok && id != "" {
			return VersionSpec{Kind: kind, ID: id}
		}
	}

	kind := Release
	if strings.Contains(s, string(Snapshot)) {
		kind = Snapshot
	}

	id := s
	if i := strings.LastIndex(s, kindSeparator); i >= 0 {
		id = s[i+len(kindSeparator):]
	}

	return VersionSpec{Kind: kind, ID: id}
}

// IsLatest reports whether the id still needs resolution.
func (v VersionSpec) IsLatest() bool {
	return v.ID == Latest
}

// WithID returns a copy of v carrying a concrete id.
func (v VersionSpec) WithID(id string) VersionSpec {
	return VersionSpec{Kind: v.Kind, ID: id}
}

// Format renders the canonical "{kind}-{id}" string for a resolved id.
func (v VersionSpec) Format(resolvedID string) string {
	return string(v.Kind) + kindSeparator + resolvedID
}

// String renders the canonical form of v itself.
func (v VersionSpec) String() string {
	return v.Format(v.ID)
}
