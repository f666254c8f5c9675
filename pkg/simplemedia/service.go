package simplemedia

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the simple-media pipeline.
type Service interface {
	// UploadImage validates, transforms and stores an image synchronously.
	// On success the asset is active and its manifest lists the original
	// plus every configured thumbnail.
	UploadImage(ctx context.Context, req UploadImageRequest) (*AssetManifest, error)

	// UploadVideo stores the original and returns a processing manifest
	// immediately; renditions and the poster frame are produced by a
	// detached background job. The job's outcome is observable only via
	// GetAsset.
	UploadVideo(ctx context.Context, req UploadVideoRequest) (*AssetManifest, error)

	// GetAsset returns the manifest for an asset, with stored keys
	// rewritten into externally resolvable URLs.
	GetAsset(ctx context.Context, id uuid.UUID) (*AssetManifest, error)

	// DeleteAsset removes every blob the asset references and then the
	// registry record. Only the owner may delete.
	DeleteAsset(ctx context.Context, id uuid.UUID, callerID uuid.UUID) error

	// Shutdown waits for in-flight background processing to settle, or
	// until the context is done.
	Shutdown(ctx context.Context) error
}
