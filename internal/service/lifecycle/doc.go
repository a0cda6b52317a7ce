// Package lifecycle orchestrates instance operations across the registry, the
// upstream resolvers, the artifact fetcher and the filesystem.
//
// Operations that touch both the filesystem and the registry validate first,
// mutate the filesystem second and commit to the registry last. They run as a
// saga: when a later step fails the earlier steps are compensated, and when a
// compensation fails too the error wraps ErrDiverged.
package lifecycle
