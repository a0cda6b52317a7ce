package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/wyomingwade/slapaman/internal/config"
	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
	"github.com/wyomingwade/slapaman/internal/logger"
)

// Repository defines persistence operations for instance records.
type Repository interface {
	Load(ctx context.Context) ([]*domain.Instance, error)
	Save(ctx context.Context, instances []*domain.Instance) error
	Find(ctx context.Context, name string) (*domain.Instance, error)
	Add(ctx context.Context, inst *domain.Instance) error
	Remove(ctx context.Context, name string) error
	Replace(ctx context.Context, name string, inst *domain.Instance) error
}

var (
	// ErrNotFound is returned when no record carries the requested name.
	ErrNotFound = errors.New("instance not found")
	// ErrNameCollision is returned when a record with the same name already exists.
	ErrNameCollision = errors.New("instance name already taken")
	// ErrCorrupt is returned when the registry file cannot be parsed.
	ErrCorrupt = errors.New("registry file is corrupt")
)

// FileRepository persists instance records to a JSON array file on disk.
type FileRepository struct {
	// path is the filesystem location of the registry file.
	path string
	// mu serialises access within this process.
	mu sync.Mutex
}

var _ Repository = (*FileRepository)(nil)

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the registry file location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads every record. A missing or empty file is an empty registry.
func (r *FileRepository) Load(_ context.Context) ([]*domain.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

// Save replaces the whole registry with instances.
func (r *FileRepository) Save(ctx context.Context, instances []*domain.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.save(ctx, instances)
}

// Find returns the record named name.
func (r *FileRepository) Find(_ context.Context, name string) (*domain.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	instances, err := r.load()
	if err != nil {
		return nil, err
	}

	i := indexOf(instances, name)
	if i < 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	return instances[i], nil
}

// Add appends inst unless its name is already registered.
func (r *FileRepository) Add(ctx context.Context, inst *domain.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	instances, err := r.load()
	if err != nil {
		return err
	}

	if indexOf(instances, inst.Name) >= 0 {
		return fmt.Errorf("%s: %w", inst.Name, ErrNameCollision)
	}

	return r.save(ctx, append(instances, inst.Clone()))
}

// Remove deletes the record named name.
func (r *FileRepository) Remove(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	instances, err := r.load()
	if err != nil {
		return err
	}

	i := indexOf(instances, name)
	if i < 0 {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	return r.save(ctx, slices.Delete(instances, i, i+1))
}

// Replace removes the record named name and appends inst in its place.
// inst may carry a different name, which must not belong to another record.
func (r *FileRepository) Replace(ctx context.Context, name string, inst *domain.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	instances, err := r.load()
	if err != nil {
		return err
	}

	i := indexOf(instances, name)
	if i < 0 {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	instances = slices.Delete(instances, i, i+1)

	if indexOf(instances, inst.Name) >= 0 {
		return fmt.Errorf("%s: %w", inst.Name, ErrNameCollision)
	}

	return r.save(ctx, append(instances, inst.Clone()))
}

func (r *FileRepository) load() ([]*domain.Instance, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*domain.Instance{}, nil
		}

		return nil, fmt.Errorf("read registry file: %w", err)
	}

	// Earlier releases created the file empty before the first write.
	if len(bytes.TrimSpace(contents)) == 0 {
		return []*domain.Instance{}, nil
	}

	var instances []*domain.Instance
	if err = json.Unmarshal(contents, &instances); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", r.path, ErrCorrupt, err)
	}

	instances = slices.DeleteFunc(instances, func(inst *domain.Instance) bool {
		return inst == nil
	})

	return instances, nil
}

func (r *FileRepository) save(ctx context.Context, instances []*domain.Instance) error {
	if instances == nil {
		instances = []*domain.Instance{}
	}

	data, err := json.MarshalIndent(instances, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err = os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*")
	if err != nil {
		return fmt.Errorf("create temporary registry file: %w", err)
	}

	tmpName := tmp.Name()

	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmpName)
	}()

	if err = writeAndSync(tmp, data); err != nil {
		return fmt.Errorf("write registry file: %w", err)
	}

	if err = os.Chmod(tmpName, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("chmod registry file: %w", err)
	}

	if err = os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace registry file: %w", err)
	}

	logger.DebugKV(ctx, "Registry saved", "path", r.path, "instances", len(instances))

	return nil
}

func writeAndSync(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func indexOf(instances []*domain.Instance, name string) int {
	return slices.IndexFunc(instances, func(inst *domain.Instance) bool {
		return inst.Name == name
	})
}
