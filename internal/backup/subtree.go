package backup

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownSubtree is returned for subtree names outside the known set.
var ErrUnknownSubtree = errors.New("unknown subtree")

// Subtree is a backupable unit of instance data.
type Subtree struct {
	// Name prefixes backup directory names.
	Name string
	// Dir is relative to the instance directory.
	Dir string
	// Marker must exist inside Dir for the data to be recognised.
	Marker string
}

// Known subtrees of a Java edition server.
var (
	World  = Subtree{Name: "world", Dir: "world", Marker: "level.dat"}
	Nether = Subtree{Name: "nether", Dir: filepath.Join("world", "DIM-1"), Marker: "region"}
	End    = Subtree{Name: "end", Dir: filepath.Join("world", "DIM1"), Marker: "region"}
)

// Subtrees lists the known subtrees.
func Subtrees() []Subtree {
	return []Subtree{World, Nether, End}
}

// LookupSubtree finds a known subtree by name.
func LookupSubtree(name string) (Subtree, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	for _, s := range Subtrees() {
		if s.Name == name {
			return s, nil
		}
	}

	return Subtree{}, fmt.Errorf("%q: %w", name, ErrUnknownSubtree)
}
