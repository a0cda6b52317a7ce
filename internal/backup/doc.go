// Package backup snapshots, restores and replaces the data subtrees of a server
// instance. Backups live in {instance}/backups and are never modified after
// they are written.
package backup
