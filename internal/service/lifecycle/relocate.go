package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/multierr"

	"github.com/wyomingwade/slapaman/internal/backup"
	"github.com/wyomingwade/slapaman/internal/config"
	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
	"github.com/wyomingwade/slapaman/internal/logger"
)

// Rename gives an instance a new name and moves its directory accordingly.
func (s *Service) Rename(ctx context.Context, oldName, newName string) (*domain.Instance, error) {
	ctx = logger.WithName(ctx, "rename")

	inst, err := s.Get(ctx, oldName)
	if err != nil {
		return nil, err
	}

	renamed := inst.Clone()
	renamed.Name = newName
	renamed.UpdatedAt = s.now()

	if err = s.checkFree(ctx, newName, renamed.Dir()); err != nil {
		return nil, err
	}

	err = runSaga(ctx,
		moveStep(inst.Dir(), renamed.Dir()),
		step{
			name: "update record",
			do:   func(ctx context.Context) error { return s.registry.Replace(ctx, oldName, renamed) },
		},
	)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Instance renamed", "from", oldName, "to", newName)

	return renamed, nil
}

// Move relocates an instance directory under newRoot, keeping its name.
func (s *Service) Move(ctx context.Context, name, newRoot string) (*domain.Instance, error) {
	ctx = logger.WithName(ctx, "move")

	inst, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	if newRoot, err = absRoot(newRoot); err != nil {
		return nil, err
	}

	moved := inst.Clone()
	moved.Path = newRoot
	moved.UpdatedAt = s.now()

	if filepath.Clean(moved.Dir()) == filepath.Clean(inst.Dir()) {
		return nil, fmt.Errorf("%s: %w", moved.Dir(), errSameLocation)
	}

	if _, err = os.Lstat(moved.Dir()); err == nil {
		return nil, fmt.Errorf("%s: %w", moved.Dir(), ErrTargetExists)
	}

	err = runSaga(ctx,
		mkdirStep("create root", newRoot),
		moveStep(inst.Dir(), moved.Dir()),
		step{
			name: "update record",
			do:   func(ctx context.Context) error { return s.registry.Replace(ctx, name, moved) },
		},
	)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Instance moved", "name", name, "from", inst.Path, "to", newRoot)

	return moved, nil
}

// Copy duplicates an instance next to the original under a new name.
// The copy gets a fresh identity.
func (s *Service) Copy(ctx context.Context, name, newName string) (*domain.Instance, error) {
	ctx = logger.WithName(ctx, "copy")

	inst, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	copied := inst.Duplicate(newName, s.now())

	if err = s.checkFree(ctx, newName, copied.Dir()); err != nil {
		return nil, err
	}

	err = runSaga(ctx,
		step{
			name: "copy directory",
			do:   func(context.Context) error { return copyDir(inst.Dir(), copied.Dir()) },
			undo: func(context.Context) error { return os.RemoveAll(copied.Dir()) },
		},
		step{
			name: "add record",
			do:   func(ctx context.Context) error { return s.registry.Add(ctx, copied) },
		},
	)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Instance copied", "from", name, "to", newName, "dir", copied.Dir())

	return copied, nil
}

func moveStep(src, dst string) step {
	return step{
		name: "move directory",
		do:   func(context.Context) error { return moveDir(src, dst) },
		undo: func(context.Context) error { return moveDir(dst, src) },
	}
}

// mkdirStep creates dir with its missing parents. Undo removes only the
// directories it created, deepest first, and fails on any that are not empty.
func mkdirStep(name, dir string) step {
	var created []string

	return step{
		name: name,
		do: func(context.Context) error {
			created = missingDirs(dir)

			return os.MkdirAll(dir, config.DefaultDirPermissions)
		},
		undo: func(context.Context) error {
			var err error

			for _, d := range created {
				if rerr := os.Remove(d); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
					err = multierr.Append(err, rerr)
				}
			}

			return err
		},
	}
}

// missingDirs returns dir and those of its ancestors that do not exist, deepest first.
func missingDirs(dir string) []string {
	var missing []string

	for p := filepath.Clean(dir); ; p = filepath.Dir(p) {
		if _, err := os.Lstat(p); err == nil {
			break
		}

		missing = append(missing, p)

		if filepath.Dir(p) == p {
			break
		}
	}

	return missing
}

// moveDir renames src to dst and falls back to copy and delete across devices.
func moveDir(src, dst string) error {
	err := os.Rename(src, dst)
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err = copyDir(src, dst); err != nil {
		_ = os.RemoveAll(dst)

		return err
	}

	return os.RemoveAll(src)
}

func copyDir(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%s: %w", dst, ErrTargetExists)
	}

	fs := backup.HostFS()

	return backup.CopyTree(fs, src, fs, dst)
}
