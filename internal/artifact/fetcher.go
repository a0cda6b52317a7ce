package artifact

import (
	"context"
	"crypto/sha1" //nolint:gosec // Mojang publishes SHA-1 digests.
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"github.com/wyomingwade/slapaman/internal/logger"
	"github.com/wyomingwade/slapaman/internal/upstream"
)

var (
	// ErrIntegrityMismatch is matched by every IntegrityError.
	ErrIntegrityMismatch = errors.New("artifact integrity mismatch")

	errUnsupportedAlgorithm = errors.New("unsupported digest algorithm")
)

// Check names which integrity check failed.
type Check string

const (
	// CheckSize compares the body length with the published size.
	CheckSize Check = "size"
	// CheckHash compares the body digest with the published digest.
	CheckHash Check = "hash"
)

// IntegrityError describes a downloaded body that disagrees with upstream metadata.
type IntegrityError struct {
	Check    Check
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s check failed: expected %s, got %s", e.Check, e.Expected, e.Actual)
}

// Is makes IntegrityError match ErrIntegrityMismatch.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrityMismatch
}

// Getter downloads a URL into memory.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Fetcher downloads artifacts and verifies them before returning the bytes.
type Fetcher struct {
	client Getter
}

// NewFetcher creates a fetcher over client, usually an *upstream.Client.
func NewFetcher(client Getter) *Fetcher {
	return &Fetcher{client: client}
}

// FetchAndVerify downloads url and checks the body against size and digest when
// they are known. Nothing is written to disk.
func (f *Fetcher) FetchAndVerify(
	ctx context.Context,
	url string,
	size *uint64,
	digest *upstream.Digest,
) ([]byte, error) {
	logger.InfoKV(ctx, "Downloading artifact", "url", url)

	body, err := f.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("download artifact: %w", err)
	}

	if err = Verify(body, size, digest); err != nil {
		return nil, err
	}

	if size == nil && digest == nil {
		logger.WarnKV(ctx, "Artifact accepted without integrity metadata", "url", url, "bytes", len(body))
	} else {
		logger.DebugKV(ctx, "Artifact verified", "url", url, "bytes", len(body))
	}

	return body, nil
}

// Verify checks the size first and the digest second.
func Verify(body []byte, size *uint64, digest *upstream.Digest) error {
	if size != nil && uint64(len(body)) != *size {
		return &IntegrityError{
			Check:    CheckSize,
			Expected: strconv.FormatUint(*size, 10),
			Actual:   strconv.Itoa(len(body)),
		}
	}

	if digest == nil {
		return nil
	}

	actual, err := Sum(digest.Algorithm, body)
	if err != nil {
		return err
	}

	if !strings.EqualFold(actual, strings.TrimSpace(digest.Hex)) {
		return &IntegrityError{
			Check:    CheckHash,
			Expected: strings.ToLower(digest.Hex),
			Actual:   actual,
		}
	}

	return nil
}

// Sum returns the lowercase hex digest of body.
func Sum(algorithm upstream.Algorithm, body []byte) (string, error) {
	hasher, err := newHash(algorithm)
	if err != nil {
		return "", err
	}

	_, _ = hasher.Write(body)

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func newHash(algorithm upstream.Algorithm) (hash.Hash, error) {
	switch algorithm {
	case upstream.SHA1:
		return sha1.New(), nil //nolint:gosec // see import.
	case upstream.SHA256:
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("%q: %w", algorithm, errUnsupportedAlgorithm)
	}
}
