package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPath  = errors.New("invalid file path")
)

type FileStorage interface {
	// Upload stores a file and returns its key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file; deleting a missing file is not an error
	Delete(ctx context.Context, path string) error

	// GetURL returns a public URL, or a presigned one valid for expiry when expiry > 0
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}

// Config selects and configures a backend.
type Config struct {
	Type     string // local, s3
	BasePath string
	BaseURL  string
	S3Bucket string
	S3Region string
}

// New builds the backend named by cfg.Type.
func New(ctx context.Context, cfg Config) (FileStorage, error) {
	switch cfg.Type {
	case "", "local":
		local, err := NewLocalStorage(cfg.BasePath, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return local, nil
	case "s3":
		s3Storage, err := NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			return nil, err
		}
		return s3Storage, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
