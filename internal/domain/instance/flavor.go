package instance

import (
	"errors"
	"fmt"
	"strings"
)

// Flavor names the upstream distribution of an instance's server artifact.
// The set is closed.
type Flavor string

const (
	// Vanilla is the official Mojang server.
	Vanilla Flavor = "vanilla"
	// Paper is the PaperMC server.
	Paper Flavor = "paper"
	// Fabric is the Fabric loader server launcher.
	Fabric Flavor = "fabric"
)

// ErrUnknownFlavor is returned for a flavor outside the supported set.
var ErrUnknownFlavor = errors.New("unknown flavor")

// Flavors lists every supported flavor.
func Flavors() []Flavor {
	return []Flavor{Vanilla, Paper, Fabric}
}

// ParseFlavor reads a flavor name case-insensitively.
func ParseFlavor(s string) (Flavor, error) {
	f := Flavor(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownFlavor)
	}

	return f, nil
}

// Valid reports whether f is one of the supported flavors.
func (f Flavor) Valid() bool {
	switch f {
	case Vanilla, Paper, Fabric:
		return true
	default:
		return false
	}
}

func (f Flavor) String() string {
	return string(f)
}
