package lifecycle

import (
	"context"

	"github.com/wyomingwade/slapaman/internal/backup"
)

// Backup snapshots a subtree of the named instance.
func (s *Service) Backup(ctx context.Context, name string, subtree backup.Subtree, tag string) (string, error) {
	inst, err := s.Get(ctx, name)
	if err != nil {
		return "", err
	}

	return s.backups.Create(ctx, inst.Dir(), subtree, tag)
}

// Restore installs a previous backup of a subtree.
func (s *Service) Restore(ctx context.Context, name string, subtree backup.Subtree, ref string) error {
	inst, err := s.Get(ctx, name)
	if err != nil {
		return err
	}

	return s.backups.Restore(ctx, inst.Dir(), subtree, ref)
}

// SetSubtree replaces a subtree with an external directory.
func (s *Service) SetSubtree(ctx context.Context, name string, subtree backup.Subtree, source string) error {
	inst, err := s.Get(ctx, name)
	if err != nil {
		return err
	}

	return s.backups.Set(ctx, inst.Dir(), subtree, source)
}

// Backups lists the backups of a subtree, oldest first.
func (s *Service) Backups(ctx context.Context, name string, subtree backup.Subtree) ([]string, error) {
	inst, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	return s.backups.List(inst.Dir(), subtree)
}
