// Package instance contains the core domain types of slapaman.
//
// It defines VersionSpec (a requested game version, possibly "latest"), Flavor
// (the upstream distribution an artifact comes from) and Instance (one managed
// server deployment as recorded in the registry).
package instance
