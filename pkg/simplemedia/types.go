package simplemedia

import (
	"time"

	"github.com/google/uuid"
)

// AssetKind is the domain type for the two supported media kinds.
type AssetKind string

// Asset kind constants (typed).
const (
	KindImage AssetKind = "image"
	KindVideo AssetKind = "video"
)

// AssetStatus is the domain type for asset lifecycle states.
//
// Images complete synchronously and are written directly as "active".
// Videos pass through "processing" and settle to "ready" or "failed".
type AssetStatus string

// Asset status constants (typed).
const (
	StatusActive     AssetStatus = "active"
	StatusProcessing AssetStatus = "processing"
	StatusReady      AssetStatus = "ready"
	StatusFailed     AssetStatus = "failed"
)

// Well-known variant names.
const (
	VariantPoster = "poster"
)

// MediaAsset is the persistent record for one submitted image or video and
// all of its derived renditions. Mutated only by the pipeline service.
type MediaAsset struct {
	ID          uuid.UUID         `json:"id"`
	OwnerID     uuid.UUID         `json:"owner_id"`
	Kind        AssetKind         `json:"kind"`
	OriginalKey string            `json:"original_key"`
	Status      AssetStatus       `json:"status"`
	Variants    map[string]string `json:"variants,omitempty"`
	Metadata    AssetMetadata     `json:"metadata"`
	Error       *AssetError       `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// AssetMetadata carries caller-supplied and derived descriptive fields.
type AssetMetadata struct {
	SizeBytes int64    `json:"size_bytes,omitempty"`
	Format    string   `json:"format,omitempty"`
	FileName  string   `json:"file_name,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// AssetError describes a terminal background-processing failure.
// Present only when Status is StatusFailed.
type AssetError struct {
	Message  string        `json:"message"`
	FailedAt time.Time     `json:"failed_at"`
	Elapsed  time.Duration `json:"elapsed"`
}

// AssetURLs maps every blob the asset references to an externally
// resolvable URL.
type AssetURLs struct {
	Original string            `json:"original"`
	Variants map[string]string `json:"variants,omitempty"`
	Poster   string            `json:"poster,omitempty"`
}

// AssetManifest is the caller-facing view of an asset: identity, lifecycle
// state and resolvable URLs for the original plus every variant.
type AssetManifest struct {
	ID       uuid.UUID     `json:"id"`
	Kind     AssetKind     `json:"kind"`
	Status   AssetStatus   `json:"status"`
	URLs     AssetURLs     `json:"urls"`
	Metadata AssetMetadata `json:"metadata"`
	Error    *AssetError   `json:"error,omitempty"`
}
