package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/wyomingwade/slapaman/internal/logger"
)

// DirName is the directory inside an instance that holds backups.
const DirName = "backups"

const timestampLayout = "20060102-150405"

var (
	// ErrSourceInvalid is returned when a subtree lacks its marker.
	ErrSourceInvalid = errors.New("subtree source is invalid")
	// ErrBackupNotFound is returned when a backup reference resolves to nothing.
	ErrBackupNotFound = errors.New("backup not found")
	// ErrIO wraps filesystem failures while copying or removing trees.
	ErrIO = errors.New("backup io failure")
)

// Manager creates and restores subtree backups.
type Manager struct {
	fs    billy.Filesystem
	clock func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithFilesystem replaces the host filesystem. Paths given to the manager are
// resolved against it.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(m *Manager) {
		m.fs = fs
	}
}

// WithClock replaces time.Now for backup naming.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

// HostFS is the operating system filesystem addressed by plain paths.
func HostFS() billy.Filesystem {
	return osfs.New("")
}

// NewManager returns a manager over the host filesystem.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		fs:    HostFS(),
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Create copies the live subtree of instanceDir into a new backup directory
// and returns its path.
func (m *Manager) Create(ctx context.Context, instanceDir string, subtree Subtree, tag string) (string, error) {
	ctx = logger.WithName(ctx, "backup")

	live := filepath.Join(instanceDir, subtree.Dir)
	if err := m.checkMarker(live, subtree); err != nil {
		return "", err
	}

	root := filepath.Join(instanceDir, DirName)
	if err := m.fs.MkdirAll(root, dirMode); err != nil {
		return "", fmt.Errorf("create %s: %w: %w", root, ErrIO, err)
	}

	target, err := m.freeName(root, BaseName(subtree, m.clock(), tag))
	if err != nil {
		return "", err
	}

	if err = CopyTree(m.fs, live, m.fs, target); err != nil {
		_ = util.RemoveAll(m.fs, target)

		return "", fmt.Errorf("copy %s to %s: %w: %w", live, target, ErrIO, err)
	}

	logger.InfoKV(ctx, "Backup created", "subtree", subtree.Name, "path", target)

	return target, nil
}

// Restore installs a backup as the live subtree. ref is a path, or the name of
// a backup inside the instance backups directory.
func (m *Manager) Restore(ctx context.Context, instanceDir string, subtree Subtree, ref string) error {
	source, err := m.resolveRef(instanceDir, ref)
	if err != nil {
		return err
	}

	return m.Set(ctx, instanceDir, subtree, source)
}

// Set replaces the live subtree with the contents of source.
func (m *Manager) Set(ctx context.Context, instanceDir string, subtree Subtree, source string) error {
	ctx = logger.WithName(ctx, "backup")

	if err := m.checkMarker(source, subtree); err != nil {
		return err
	}

	live := filepath.Join(instanceDir, subtree.Dir)

	if within(source, live) {
		return fmt.Errorf("%s is inside the live %s: %w", source, subtree.Name, ErrSourceInvalid)
	}

	if within(live, source) {
		return fmt.Errorf("%s contains the live %s: %w", source, subtree.Name, ErrSourceInvalid)
	}

	if err := util.RemoveAll(m.fs, live); err != nil {
		return fmt.Errorf("remove %s: %w: %w", live, ErrIO, err)
	}

	if err := CopyTree(m.fs, source, m.fs, live); err != nil {
		return fmt.Errorf("copy %s to %s: %w: %w", source, live, ErrIO, err)
	}

	logger.InfoKV(ctx, "Subtree replaced", "subtree", subtree.Name, "source", source)

	return nil
}

// List returns the backup names of subtree sorted by name, which is also
// chronological order.
func (m *Manager) List(instanceDir string, subtree Subtree) ([]string, error) {
	root := filepath.Join(instanceDir, DirName)

	entries, err := m.fs.ReadDir(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("list %s: %w: %w", root, ErrIO, err)
	}

	prefix := subtree.Name + "-"
	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	return names, nil
}

// BaseName is the backup directory name before collision suffixes.
func BaseName(subtree Subtree, now time.Time, tag string) string {
	name := subtree.Name + "-" + now.UTC().Format(timestampLayout)

	if tag = SanitizeTag(tag); tag != "" {
		name += "-" + tag
	}

	return name
}

// SanitizeTag maps a free form tag onto [A-Za-z0-9_-]. Spaces become "-",
// other characters "_", and separators at either end are trimmed.
func SanitizeTag(tag string) string {
	var b strings.Builder

	b.Grow(len(tag))

	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		default:
			b.WriteByte('_')
		}
	}

	return strings.Trim(b.String(), "-_")
}

func (m *Manager) freeName(root, base string) (string, error) {
	candidate := filepath.Join(root, base)

	for n := 1; ; n++ {
		_, err := m.fs.Lstat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}

		if err != nil {
			return "", fmt.Errorf("stat %s: %w: %w", candidate, ErrIO, err)
		}

		candidate = filepath.Join(root, fmt.Sprintf("%s-%02d", base, n))
	}
}

func (m *Manager) resolveRef(instanceDir, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty reference: %w", ErrBackupNotFound)
	}

	direct := ref
	if abs, err := filepath.Abs(ref); err == nil {
		direct = abs
	}

	for _, candidate := range []string{direct, filepath.Join(instanceDir, DirName, ref)} {
		if info, err := m.fs.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%s: %w", ref, ErrBackupNotFound)
}

func (m *Manager) checkMarker(dir string, subtree Subtree) error {
	info, err := m.fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", dir, ErrSourceInvalid)
	}

	if _, err = m.fs.Stat(filepath.Join(dir, subtree.Marker)); err != nil {
		return fmt.Errorf("%s has no %s: %w", dir, subtree.Marker, ErrSourceInvalid)
	}

	return nil
}

// within reports whether path is dir or below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))

	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
