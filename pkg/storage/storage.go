// Package storage persists uploaded files and returns the URL they are served
// from.
package storage

import (
	"context"
	"fmt"
	"io"

	"course-platform/pkg/utils"

	"go.uber.org/zap"
)

// Storage saves body under key and returns its public URL. Delete takes a URL
// returned by Put; removing a file that is already gone is not an error.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// New builds the configured storage backend.
func New(ctx context.Context, config utils.StorageConfig, log *zap.Logger) (Storage, error) {
	switch config.Driver {
	case utils.StorageS3:
		return NewS3Storage(ctx, config)
	case utils.StorageLocal, "":
		log.Info("Using local upload storage", zap.String("dir", config.UploadDir))
		return NewLocalStorage(config.UploadDir, config.URLPrefix)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", config.Driver)
	}
}
