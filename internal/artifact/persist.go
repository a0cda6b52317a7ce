package artifact

import (
	"bytes"
	"context"
	"crypto"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/wyomingwade/slapaman/internal/logger"
	"github.com/wyomingwade/slapaman/internal/upstream"
)

// ErrArtifactExists is returned when persisting over an existing file without overwrite.
var ErrArtifactExists = errors.New("artifact already exists")

// FileMode is the permission of installed artifacts.
const FileMode os.FileMode = 0o644

// Persist installs data at path. The bytes are written to a sibling file and
// renamed into place, so a half written artifact never appears at path. When
// digest is set it is checked once more by the apply step.
func Persist(ctx context.Context, path string, data []byte, digest *upstream.Digest, overwrite bool) error {
	path = filepath.Clean(path)

	created, err := ensureTarget(path, overwrite)
	if err != nil {
		return err
	}

	options := goupdate.Options{
		TargetPath: path,
		TargetMode: FileMode,
	}

	if digest != nil {
		if options.Checksum, err = hex.DecodeString(digest.Hex); err != nil {
			return fmt.Errorf("decode %s digest: %w", digest.Algorithm, err)
		}

		if options.Hash, err = cryptoHash(digest.Algorithm); err != nil {
			return err
		}
	}

	logger.DebugKV(ctx, "Applying artifact", "path", path, "bytes", len(data), "overwrite", overwrite)

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		if created {
			_ = os.Remove(path)
		}

		return fmt.Errorf("apply artifact %s: %w", path, err)
	}

	removeLeftovers(path)

	logger.InfoKV(ctx, "Artifact installed", "path", path)

	return nil
}

// ensureTarget makes sure path exists for the rename dance of go-update.
// It reports whether an empty placeholder was created.
func ensureTarget(path string, overwrite bool) (bool, error) {
	if overwrite {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}

	placeholder, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, FileMode)
	if errors.Is(err, os.ErrExist) {
		return false, fmt.Errorf("%s: %w", path, ErrArtifactExists)
	}

	if err != nil {
		return false, fmt.Errorf("create artifact %s: %w", path, err)
	}

	if err = placeholder.Close(); err != nil {
		return true, fmt.Errorf("create artifact %s: %w", path, err)
	}

	return true, nil
}

// removeLeftovers drops the previous artifact that go-update keeps aside.
func removeLeftovers(path string) {
	dir, base := filepath.Split(path)

	for _, old := range []string{path + ".old", filepath.Join(dir, "."+base+".old")} {
		if _, err := os.Stat(old); err == nil {
			_ = os.Remove(old)
		}
	}
}

func cryptoHash(algorithm upstream.Algorithm) (crypto.Hash, error) {
	switch algorithm {
	case upstream.SHA1:
		return crypto.SHA1, nil
	case upstream.SHA256:
		return crypto.SHA256, nil
	default:
		return 0, fmt.Errorf("%q: %w", algorithm, errUnsupportedAlgorithm)
	}
}
