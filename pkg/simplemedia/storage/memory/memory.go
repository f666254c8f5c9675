package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/tendant/simple-media/pkg/simplemedia"
)

var _ simplemedia.BlobStore = (*Backend)(nil)

// Backend is an in-memory implementation of the simplemedia.BlobStore
// interface. Intended for tests and development.
type Backend struct {
	mu          sync.RWMutex
	objects     map[string][]byte
	contentType map[string]string
	urlPrefix   string
}

// Option configures the in-memory backend
type Option func(*Backend)

// WithURLPrefix sets the prefix used by PublicURL
func WithURLPrefix(prefix string) Option {
	return func(b *Backend) {
		b.urlPrefix = strings.TrimSuffix(prefix, "/")
	}
}

// New creates a new in-memory storage backend
func New(options ...Option) *Backend {
	b := &Backend{
		objects:     make(map[string][]byte),
		contentType: make(map[string]string),
		urlPrefix:   "memory://blobs",
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// Upload stores the blob under the given key
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = data
	b.contentType[objectKey] = contentType
	return nil
}

// Download retrieves the blob stored under the given key
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, fmt.Errorf("object not found: %s", objectKey)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the blob. Missing keys are a no-op.
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, objectKey)
	delete(b.contentType, objectKey)
	return nil
}

// PublicURL returns the deterministic URL for a key
func (b *Backend) PublicURL(objectKey string) (string, error) {
	return fmt.Sprintf("%s/%s", b.urlPrefix, objectKey), nil
}

// Keys returns every stored key in sorted order. Test helper.
func (b *Backend) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ContentType returns the stored content type for a key. Test helper.
func (b *Backend) ContentType(objectKey string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ct, ok := b.contentType[objectKey]
	return ct, ok
}
