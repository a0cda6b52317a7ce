// Package config defines slapaman settings and provides helpers to load,
// validate and save them in YAML format.
//
// DataDir is the single place where the per-user application data directory is
// discovered. Everything else receives concrete paths from a loaded Config.
package config
