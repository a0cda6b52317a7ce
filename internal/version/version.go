package version

import (
	"fmt"
	"time"

	"github.com/carlmjohnson/versioninfo"
)

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// shortRevisionLength is the number of SHA characters shown for VCS builds.
const shortRevisionLength = 7

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit and build time.
func Full() string {
	return fmt.Sprintf("version: %s, commit: %s, built at: %s", Version, commit(), buildTime())
}

// UserAgent is the fixed client identification sent with every upstream request.
func UserAgent() string {
	return fmt.Sprintf("slapaman/%s (GitHub: @wyomingwade)", Version)
}

func commit() string {
	if Commit != "none" {
		return Commit
	}

	revision := versioninfo.Revision
	if revision == "" || revision == "unknown" {
		return Commit
	}

	if len(revision) > shortRevisionLength {
		revision = revision[:shortRevisionLength]
	}

	if versioninfo.DirtyBuild {
		revision += "-dirty"
	}

	return revision
}

func buildTime() string {
	if BuildTime != "unknown" || versioninfo.LastCommit.IsZero() {
		return BuildTime
	}

	return versioninfo.LastCommit.UTC().Format(time.RFC3339)
}
