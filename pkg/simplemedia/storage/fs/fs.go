package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/simple-media/pkg/simplemedia"
)

// Backend is a filesystem implementation of the simplemedia.BlobStore
// interface.
type Backend struct {
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing blobs
	URLPrefix string // Prefix for public URLs, e.g. a local CDN origin
}

// New creates a new filesystem storage backend
func New(config Config) (simplemedia.BlobStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: strings.TrimSuffix(config.URLPrefix, "/"),
	}, nil
}

// Upload writes the blob under baseDir/objectKey
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, contentType string) error {
	filePath := filepath.Join(b.baseDir, objectKey)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Download opens the blob stored under the given key
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(b.baseDir, objectKey))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("object not found: %s", objectKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes the blob. Missing keys are a no-op.
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	err := os.Remove(filepath.Join(b.baseDir, objectKey))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// PublicURL returns the deterministic URL for a key
func (b *Backend) PublicURL(objectKey string) (string, error) {
	if b.urlPrefix == "" {
		return "", errors.New("url prefix not configured for filesystem backend")
	}
	return fmt.Sprintf("%s/%s", b.urlPrefix, objectKey), nil
}
