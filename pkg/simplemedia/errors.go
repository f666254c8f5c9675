package simplemedia

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrUnsupportedFormat indicates a declared content type outside the
	// whitelist for the asset kind. Raised before any storage or transform
	// work, so failing uploads have zero side effects.
	ErrUnsupportedFormat = errors.New("unsupported media format")

	// ErrAssetNotFound indicates an unknown asset id
	ErrAssetNotFound = errors.New("asset not found")

	// ErrUnauthorized indicates the caller does not own the asset
	ErrUnauthorized = errors.New("caller is not the asset owner")

	// ErrInvalidStatusTransition indicates an attempt to leave a terminal status
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrEmptyPayload indicates an upload with no bytes
	ErrEmptyPayload = errors.New("empty payload")
)

// StorageError represents an error from the blob store
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// TransformError represents a resize or transcode failure
type TransformError struct {
	Kind    AssetKind
	Variant string
	Err     error
}

func (e *TransformError) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("%s transform failed for variant %s: %v", e.Kind, e.Variant, e.Err)
	}
	return fmt.Sprintf("%s transform failed: %v", e.Kind, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// RegistryError represents an error from the asset registry
type RegistryError struct {
	AssetID uuid.UUID
	Op      string
	Err     error
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry operation %s failed for asset %s: %v", e.Op, e.AssetID, e.Err)
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}
