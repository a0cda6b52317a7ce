// Package version exposes build metadata for slapaman.
//
// Version, Commit and BuildTime are injected at build time via Go ldflags. When
// they are left at their defaults, the VCS stamp embedded by the Go toolchain is
// used instead. UserAgent renders the identification header sent to every
// upstream API.
package version
