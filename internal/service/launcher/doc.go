// Package launcher finds a Java runtime and runs an instance's server in the
// foreground.
package launcher
