// Package storage keeps game media bytes in an object store bucket.
package storage

import (
	"context"
	"io"
	"log/slog"

	"github.com/gamestore-web/apiserver/config"
	"github.com/samber/oops"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Storage wraps an ObjectStorage backend and tags its errors with the
// object key.
type Storage struct {
	backend ObjectStorage
	logger  *slog.Logger
}

// NewStorage constructs a Storage wrapper for the provided backend.
func NewStorage(backend ObjectStorage, logger *slog.Logger) *Storage {
	return &Storage{backend: backend, logger: logger}
}

// Open builds the backend named by cfg.StorageBackend and makes sure its
// bucket exists.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Storage, error) {
	var (
		backend ObjectStorage
		err     error
	)
	switch cfg.StorageBackend {
	case "", config.StorageMinio:
		backend, err = NewMinioClient(cfg.Minio)
	case config.StorageGCS:
		backend, err = NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, oops.Code("STORAGE_UNKNOWN_BACKEND").With("backend", cfg.StorageBackend).Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, err
	}

	s := NewStorage(backend, logger)
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	logger.Info("object storage ready", "backend", cfg.StorageBackend, "bucket", backend.Bucket())
	return s, nil
}

// EnsureBucket ensures the configured bucket exists.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	if err := s.backend.EnsureBucket(ctx); err != nil {
		return oops.Code("STORAGE_BUCKET_FAILED").With("bucket", s.backend.Bucket()).Wrap(err)
	}
	return nil
}

// Put uploads an object to the configured bucket.
func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := s.backend.Put(ctx, key, r, size, contentType); err != nil {
		return oops.Code("STORAGE_PUT_FAILED").With("key", key, "size", size).Wrap(err)
	}
	s.logger.Debug("object stored", "key", key, "size", size)
	return nil
}

// Get opens a reader for an object in the configured bucket.
func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, oops.Code("STORAGE_GET_FAILED").With("key", key).Wrap(err)
	}
	return r, nil
}

// Delete removes an object from the configured bucket.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		return oops.Code("STORAGE_DELETE_FAILED").With("key", key).Wrap(err)
	}
	return nil
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}
