// Package artifact downloads server artifacts, verifies them against the
// size and digest published upstream, and installs them atomically.
package artifact
