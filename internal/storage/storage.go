package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/staybnb/webserver/config"
)

var (
	// ErrObjectNotFound is returned by Get when the key does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrInvalidKey is returned for keys a backend refuses to address.
	ErrInvalidKey = errors.New("invalid object key")
)

// MaxKeyLength bounds object keys so every backend, including a local
// filesystem, can address them.
const MaxKeyLength = 255

// imageCacheControl lets browsers cache listing images served by the
// object store directly.
const imageCacheControl = "public, max-age=3600"

// checkKey refuses keys that could escape a flat namespace or exceed
// MaxKeyLength.
func checkKey(key string) error {
	switch {
	case key == "", key == ".", key == "..",
		len(key) > MaxKeyLength,
		strings.ContainsAny(key, `/\`),
		strings.ContainsRune(key, 0):
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Storage wraps an ObjectStorage backend with a stable API.
type Storage struct {
	backend ObjectStorage
}

// NewStorage constructs a Storage wrapper for the provided backend.
func NewStorage(backend ObjectStorage) *Storage {
	return &Storage{backend: backend}
}

// New builds the backend selected by cfg.Upload.Backend and makes sure its
// bucket (or directory) exists.
func New(ctx context.Context, cfg config.Config) (*Storage, error) {
	var (
		backend ObjectStorage
		err     error
	)
	switch cfg.Upload.Backend {
	case config.UploadBackendLocal:
		backend, err = NewLocalClient(cfg.Upload.Dir)
	case config.UploadBackendMinio:
		backend, err = NewMinioClient(cfg.Minio)
	case config.UploadBackendGCS:
		backend, err = NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.Upload.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s upload backend: %w", cfg.Upload.Backend, err)
	}

	s := NewStorage(backend)
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure upload bucket %q: %w", s.Bucket(), err)
	}
	return s, nil
}

// EnsureBucket ensures the configured bucket exists.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Put uploads an object to the configured bucket.
func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, key, r, size, contentType)
}

// Get opens a reader for an object in the configured bucket.
func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

// Delete removes an object from the configured bucket.
func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}
