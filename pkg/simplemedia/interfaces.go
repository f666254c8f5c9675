package simplemedia

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// BlobStore defines the interface for durable blob storage backends.
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Upload stores the blob under the given key
	Upload(ctx context.Context, objectKey string, reader io.Reader, contentType string) error

	// Download retrieves the blob stored under the given key
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting a missing key is a no-op, so a
	// failed multi-blob delete can be retried wholesale.
	Delete(ctx context.Context, objectKey string) error

	// PublicURL returns the externally resolvable (CDN-prefixed) URL for a
	// key. The mapping is deterministic: the same key always yields the
	// same URL.
	PublicURL(objectKey string) (string, error)
}

// Registry defines the interface for asset persistence.
// Implementations must be safe for concurrent use.
type Registry interface {
	Insert(ctx context.Context, asset *MediaAsset) error
	FindByID(ctx context.Context, id uuid.UUID) (*MediaAsset, error)

	// UpdateFields applies a field-level partial update so concurrent
	// writers touching different fields do not clobber each other. Status
	// changes are validated against the transition rules atomically with
	// the write.
	UpdateFields(ctx context.Context, id uuid.UUID, patch AssetPatch) error

	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// AssetPatch is a partial update for a MediaAsset. Nil fields are left
// untouched.
type AssetPatch struct {
	Status   *AssetStatus
	Variants map[string]string
	Error    *AssetError
}

// ThumbnailSpec describes one configured image thumbnail variant.
// Thumbnails are cropped to cover the target box exactly.
type ThumbnailSpec struct {
	Name   string
	Width  int
	Height int
}

// RenditionPreset describes one configured video rendition.
type RenditionPreset struct {
	Name         string
	Height       int    // target frame height; width follows the aspect ratio
	VideoBitrate string // e.g. "2500k"
	AudioBitrate string // e.g. "128k"
}

// ImageEngine defines the synchronous image transform interface.
type ImageEngine interface {
	// Normalize bounds the longest edge, preserves aspect ratio, never
	// upscales, and re-encodes at a fixed quality to the canonical format.
	Normalize(data []byte) ([]byte, error)

	// Thumbnail produces a recompressed buffer cropped to cover the spec's
	// target box.
	Thumbnail(data []byte, spec ThumbnailSpec) ([]byte, error)
}

// Encoder defines the video transcode interface.
type Encoder interface {
	// Transcode converts the source into a fragmented stream at the
	// preset's resolution and bitrates.
	Transcode(ctx context.Context, src []byte, preset RenditionPreset) ([]byte, error)

	// ExtractFrame decodes one frame at the given fraction of the source
	// duration and returns it as JPEG.
	ExtractFrame(ctx context.Context, src []byte, fraction float64) ([]byte, error)
}

// Audit event types emitted by the pipeline.
const (
	AuditAssetCreated = "asset.created"
	AuditAssetReady   = "asset.ready"
	AuditAssetFailed  = "asset.failed"
	AuditAssetDeleted = "asset.deleted"
)

// AuditEvent is the payload handed to the audit sink.
type AuditEvent struct {
	Type     string
	AssetID  uuid.UUID
	OwnerID  uuid.UUID
	Severity string
	Payload  map[string]interface{}
}

// AuditSink receives pipeline events. Calls are fire-and-forget: a sink
// failure is logged but never fails the primary operation.
type AuditSink interface {
	Log(ctx context.Context, event AuditEvent) error
}

// DefaultThumbnailSpecs returns the configured image thumbnail set.
func DefaultThumbnailSpecs() []ThumbnailSpec {
	return []ThumbnailSpec{
		{Name: "small", Width: 320, Height: 320},
		{Name: "medium", Width: 640, Height: 640},
		{Name: "large", Width: 1024, Height: 1024},
	}
}

// DefaultRenditionPresets returns the configured video rendition ladder.
func DefaultRenditionPresets() []RenditionPreset {
	return []RenditionPreset{
		{Name: "480p", Height: 480, VideoBitrate: "1000k", AudioBitrate: "96k"},
		{Name: "720p", Height: 720, VideoBitrate: "2500k", AudioBitrate: "128k"},
		{Name: "1080p", Height: 1080, VideoBitrate: "5000k", AudioBitrate: "192k"},
	}
}
