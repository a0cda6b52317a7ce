package launcher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/wyomingwade/slapaman/internal/logger"
)

// DefaultMemoryMiB is the heap size used when none is requested.
const DefaultMemoryMiB = 2048

const mebibyte = 1 << 20

var errInvalidMemory = errors.New("invalid memory size")

// ParseMemory reads sizes like "2G", "512M" or "1024" (MiB) into MiB.
// An empty string is DefaultMemoryMiB.
func ParseMemory(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultMemoryMiB, nil
	}

	multiplier := 1

	switch {
	case strings.HasSuffix(s, "G"):
		multiplier = 1024
		s = strings.TrimSuffix(s, "G")
	case strings.HasSuffix(s, "M"):
		s = strings.TrimSuffix(s, "M")
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q: %w", s, errInvalidMemory)
	}

	return n * multiplier, nil
}

// warnLowMemory logs when the requested heap exceeds the memory available now.
func warnLowMemory(ctx context.Context, requestedMiB int) {
	stat, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		logger.DebugKV(ctx, "Unable to read memory usage", "error", err)
		return
	}

	availableMiB := stat.Available / mebibyte
	if uint64(requestedMiB) > availableMiB {
		logger.WarnKV(ctx, "Requested heap exceeds available memory",
			"requested_mib", requestedMiB,
			"available_mib", availableMiB,
		)
	}
}
