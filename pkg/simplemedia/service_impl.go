package simplemedia

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-media/pkg/simplemedia/mediakey"
)

const defaultProcessingTimeout = 15 * time.Minute

// service implements the Service interface
type service struct {
	registry          Registry
	blobStore         BlobStore
	imageEngine       ImageEngine
	encoder           Encoder
	auditSink         AuditSink
	logger            *slog.Logger
	thumbnailSpecs    []ThumbnailSpec
	renditionPresets  []RenditionPreset
	processingTimeout time.Duration

	jobs sync.WaitGroup
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRegistry sets the asset registry for the service
func WithRegistry(registry Registry) Option {
	return func(s *service) {
		s.registry = registry
	}
}

// WithBlobStore sets the blob storage backend
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithImageEngine sets the synchronous image transform engine
func WithImageEngine(engine ImageEngine) Option {
	return func(s *service) {
		s.imageEngine = engine
	}
}

// WithEncoder sets the video transcode engine
func WithEncoder(encoder Encoder) Option {
	return func(s *service) {
		s.encoder = encoder
	}
}

// WithAuditSink sets the audit sink for the service
func WithAuditSink(sink AuditSink) Option {
	return func(s *service) {
		s.auditSink = sink
	}
}

// WithLogger sets the structured logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithThumbnailSpecs overrides the configured image thumbnail set
func WithThumbnailSpecs(specs []ThumbnailSpec) Option {
	return func(s *service) {
		s.thumbnailSpecs = specs
	}
}

// WithRenditionPresets overrides the configured video rendition ladder
func WithRenditionPresets(presets []RenditionPreset) Option {
	return func(s *service) {
		s.renditionPresets = presets
	}
}

// WithProcessingTimeout bounds how long a background video job may run
func WithProcessingTimeout(d time.Duration) Option {
	return func(s *service) {
		s.processingTimeout = d
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		auditSink:         NewNoopAuditSink(),
		logger:            slog.Default(),
		thumbnailSpecs:    DefaultThumbnailSpecs(),
		renditionPresets:  DefaultRenditionPresets(),
		processingTimeout: defaultProcessingTimeout,
	}

	for _, option := range options {
		option(s)
	}

	if s.registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	return s, nil
}

// UploadImage runs the full synchronous image pipeline: validate, normalize,
// produce every configured thumbnail, upload all blobs, then write a single
// active registry record. Any failure aborts the whole operation and removes
// the blobs written so far; no record exists for a failed image upload.
func (s *service) UploadImage(ctx context.Context, req UploadImageRequest) (*AssetManifest, error) {
	if err := ValidateFormat(KindImage, req.ContentType); err != nil {
		return nil, err
	}
	if len(req.Data) == 0 {
		return nil, ErrEmptyPayload
	}

	id := uuid.New()
	owner := req.OwnerID.String()
	stem := id.String()

	normalized, err := s.imageNormalize(req.Data)
	if err != nil {
		return nil, err
	}
	defer scrub(normalized)

	// Upload thumbnails first, the normalized original last. Track what was
	// written so the failure path can retract it.
	var written []string
	cleanup := func() { s.retract(context.WithoutCancel(ctx), written) }

	variants := make(map[string]string, len(s.thumbnailSpecs))
	for _, spec := range s.thumbnailSpecs {
		thumb, terr := s.imageEngine.Thumbnail(req.Data, spec)
		if terr != nil {
			cleanup()
			return nil, &TransformError{Kind: KindImage, Variant: spec.Name, Err: terr}
		}

		key := mediakey.ImageThumbnail(owner, spec.Name, stem)
		if uerr := s.blobStore.Upload(ctx, key, bytes.NewReader(thumb), "image/jpeg"); uerr != nil {
			scrub(thumb)
			cleanup()
			return nil, &StorageError{Key: key, Op: "upload", Err: uerr}
		}
		scrub(thumb)
		written = append(written, key)
		variants[spec.Name] = key
	}

	originalKey := mediakey.ImageOriginal(owner, stem)
	if err := s.blobStore.Upload(ctx, originalKey, bytes.NewReader(normalized), "image/jpeg"); err != nil {
		cleanup()
		return nil, &StorageError{Key: originalKey, Op: "upload", Err: err}
	}
	written = append(written, originalKey)

	now := time.Now().UTC()
	asset := &MediaAsset{
		ID:          id,
		OwnerID:     req.OwnerID,
		Kind:        KindImage,
		OriginalKey: originalKey,
		Status:      StatusActive,
		Variants:    variants,
		Metadata: AssetMetadata{
			SizeBytes: int64(len(req.Data)),
			Format:    "image/jpeg",
			FileName:  req.FileName,
			Tags:      req.Tags,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.registry.Insert(ctx, asset); err != nil {
		cleanup()
		return nil, &RegistryError{AssetID: id, Op: "insert", Err: err}
	}

	s.audit(ctx, AuditEvent{
		Type:     AuditAssetCreated,
		AssetID:  id,
		OwnerID:  req.OwnerID,
		Severity: "info",
		Payload:  map[string]interface{}{"kind": KindImage, "variants": len(variants)},
	})

	return s.manifest(asset)
}

func (s *service) imageNormalize(data []byte) ([]byte, error) {
	if s.imageEngine == nil {
		return nil, fmt.Errorf("image engine not configured")
	}
	normalized, err := s.imageEngine.Normalize(data)
	if err != nil {
		return nil, &TransformError{Kind: KindImage, Err: err}
	}
	return normalized, nil
}

// UploadVideo runs the synchronous head of the video pipeline: validate,
// upload the unmodified original, insert a processing record, and return.
// Transcoding continues in a detached background job whose outcome is
// observable only through GetAsset. Request latency is bounded to one upload
// regardless of source length.
func (s *service) UploadVideo(ctx context.Context, req UploadVideoRequest) (*AssetManifest, error) {
	if err := ValidateFormat(KindVideo, req.ContentType); err != nil {
		return nil, err
	}
	if len(req.Data) == 0 {
		return nil, ErrEmptyPayload
	}
	if s.encoder == nil {
		return nil, fmt.Errorf("encoder not configured")
	}

	id := uuid.New()
	owner := req.OwnerID.String()
	stem := id.String()

	originalKey := mediakey.VideoOriginal(owner, stem)
	if err := s.blobStore.Upload(ctx, originalKey, bytes.NewReader(req.Data), req.ContentType); err != nil {
		return nil, &StorageError{Key: originalKey, Op: "upload", Err: err}
	}

	now := time.Now().UTC()
	asset := &MediaAsset{
		ID:          id,
		OwnerID:     req.OwnerID,
		Kind:        KindVideo,
		OriginalKey: originalKey,
		Status:      StatusProcessing,
		Variants:    map[string]string{},
		Metadata: AssetMetadata{
			SizeBytes: int64(len(req.Data)),
			Format:    req.ContentType,
			FileName:  req.FileName,
			Tags:      req.Tags,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.registry.Insert(ctx, asset); err != nil {
		s.retract(context.WithoutCancel(ctx), []string{originalKey})
		return nil, &RegistryError{AssetID: id, Op: "insert", Err: err}
	}

	s.audit(ctx, AuditEvent{
		Type:     AuditAssetCreated,
		AssetID:  id,
		OwnerID:  req.OwnerID,
		Severity: "info",
		Payload:  map[string]interface{}{"kind": KindVideo, "status": StatusProcessing},
	})

	// The background job must outlive the request, so it detaches from the
	// request's cancellation while keeping its values. It starts only after
	// the insert above succeeded, so the terminal update always
	// happens-after the processing record exists.
	jobCtx := context.WithoutCancel(ctx)
	s.jobs.Add(1)
	go s.processVideo(jobCtx, asset, req.Data)

	return s.manifest(asset)
}

// processVideo is the detached tail of the video pipeline. Every failure is
// caught here and becomes a terminal "failed" record; nothing escapes to the
// process level.
func (s *service) processVideo(ctx context.Context, asset *MediaAsset, src []byte) {
	defer s.jobs.Done()

	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("video processing panicked", "asset_id", asset.ID, "panic", r)
			s.markFailed(ctx, asset, fmt.Errorf("panic: %v", r), started, nil)
		}
	}()

	// The timeout bounds transcode and upload work only. Settling the record
	// afterwards uses the parent context, so a timed-out job can still be
	// marked failed.
	procCtx, cancel := context.WithTimeout(ctx, s.processingTimeout)
	defer cancel()

	owner := asset.OwnerID.String()
	stem := asset.ID.String()

	variants := make(map[string]string, len(s.renditionPresets)+1)
	var written []string

	for _, preset := range s.renditionPresets {
		data, err := s.encoder.Transcode(procCtx, src, preset)
		if err != nil {
			s.markFailed(ctx, asset, &TransformError{Kind: KindVideo, Variant: preset.Name, Err: err}, started, written)
			return
		}

		key := mediakey.VideoRendition(owner, preset.Name, stem)
		err = s.blobStore.Upload(procCtx, key, bytes.NewReader(data), "video/mp4")
		scrub(data)
		if err != nil {
			s.markFailed(ctx, asset, &StorageError{Key: key, Op: "upload", Err: err}, started, written)
			return
		}
		written = append(written, key)
		variants[preset.Name] = key
	}

	frame, err := s.encoder.ExtractFrame(procCtx, src, 0.5)
	if err != nil {
		s.markFailed(ctx, asset, &TransformError{Kind: KindVideo, Variant: VariantPoster, Err: err}, started, written)
		return
	}

	posterKey := mediakey.VideoPoster(owner, stem)
	err = s.blobStore.Upload(procCtx, posterKey, bytes.NewReader(frame), "image/jpeg")
	scrub(frame)
	if err != nil {
		s.markFailed(ctx, asset, &StorageError{Key: posterKey, Op: "upload", Err: err}, started, written)
		return
	}
	written = append(written, posterKey)
	variants[VariantPoster] = posterKey

	status := StatusReady
	if err := s.registry.UpdateFields(ctx, asset.ID, AssetPatch{Status: &status, Variants: variants}); err != nil {
		// The record can vanish mid-job when the owner deletes a processing
		// asset. Nothing references the renditions anymore, so retract them.
		if errors.Is(err, ErrAssetNotFound) {
			s.retract(ctx, written)
		}
		s.logger.Error("failed to mark asset ready", "asset_id", asset.ID, "error", err)
		return
	}

	s.audit(ctx, AuditEvent{
		Type:     AuditAssetReady,
		AssetID:  asset.ID,
		OwnerID:  asset.OwnerID,
		Severity: "info",
		Payload:  map[string]interface{}{"elapsed": time.Since(started).String(), "variants": len(variants)},
	})
	s.logger.Info("video processing settled", "asset_id", asset.ID, "status", status, "elapsed", time.Since(started))
}

// markFailed settles the record to "failed" and retracts renditions written
// before the failure. The original upload is kept: re-upload is the recovery
// path and the stored original documents what was submitted.
func (s *service) markFailed(ctx context.Context, asset *MediaAsset, cause error, started time.Time, written []string) {
	s.retract(ctx, written)

	status := StatusFailed
	patch := AssetPatch{
		Status: &status,
		Error: &AssetError{
			Message:  cause.Error(),
			FailedAt: time.Now().UTC(),
			Elapsed:  time.Since(started),
		},
	}
	if err := s.registry.UpdateFields(ctx, asset.ID, patch); err != nil {
		s.logger.Error("failed to mark asset failed", "asset_id", asset.ID, "error", err)
	}

	s.audit(ctx, AuditEvent{
		Type:     AuditAssetFailed,
		AssetID:  asset.ID,
		OwnerID:  asset.OwnerID,
		Severity: "error",
		Payload:  map[string]interface{}{"error": cause.Error()},
	})
	s.logger.Error("video processing failed", "asset_id", asset.ID, "error", cause)
}

// retract best-effort deletes blobs written by an aborted operation.
func (s *service) retract(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.blobStore.Delete(ctx, key); err != nil {
			s.logger.Warn("orphan cleanup failed", "key", key, "error", err)
		}
	}
}

// GetAsset reads the record and rewrites stored keys into externally
// resolvable URLs.
func (s *service) GetAsset(ctx context.Context, id uuid.UUID) (*AssetManifest, error) {
	asset, err := s.registry.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.manifest(asset)
}

// DeleteAsset removes every blob the record references, then the record.
// The record survives a partial blob delete so the whole operation can be
// retried; blob deletes are idempotent no-ops on missing keys.
func (s *service) DeleteAsset(ctx context.Context, id uuid.UUID, callerID uuid.UUID) error {
	asset, err := s.registry.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if asset.OwnerID != callerID {
		return ErrUnauthorized
	}

	for name, key := range asset.Variants {
		if err := s.blobStore.Delete(ctx, key); err != nil {
			return &StorageError{Key: key, Op: "delete", Err: fmt.Errorf("variant %s: %w", name, err)}
		}
	}
	if err := s.blobStore.Delete(ctx, asset.OriginalKey); err != nil {
		return &StorageError{Key: asset.OriginalKey, Op: "delete", Err: err}
	}

	if err := s.registry.DeleteByID(ctx, id); err != nil {
		return &RegistryError{AssetID: id, Op: "delete", Err: err}
	}

	s.audit(ctx, AuditEvent{
		Type:     AuditAssetDeleted,
		AssetID:  id,
		OwnerID:  callerID,
		Severity: "info",
		Payload:  map[string]interface{}{"kind": asset.Kind},
	})

	return nil
}

// Shutdown waits for in-flight background jobs to settle.
func (s *service) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.jobs.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// manifest builds the caller-facing view of an asset, resolving every stored
// key through the blob store's public URL mapping.
func (s *service) manifest(asset *MediaAsset) (*AssetManifest, error) {
	original, err := s.blobStore.PublicURL(asset.OriginalKey)
	if err != nil {
		return nil, &StorageError{Key: asset.OriginalKey, Op: "public_url", Err: err}
	}

	urls := AssetURLs{Original: original}
	for name, key := range asset.Variants {
		u, err := s.blobStore.PublicURL(key)
		if err != nil {
			return nil, &StorageError{Key: key, Op: "public_url", Err: err}
		}
		if name == VariantPoster {
			urls.Poster = u
			continue
		}
		if urls.Variants == nil {
			urls.Variants = make(map[string]string, len(asset.Variants))
		}
		urls.Variants[name] = u
	}

	return &AssetManifest{
		ID:       asset.ID,
		Kind:     asset.Kind,
		Status:   asset.Status,
		URLs:     urls,
		Metadata: asset.Metadata,
		Error:    asset.Error,
	}, nil
}

// audit delivers an event to the sink. Sink failures are logged and dropped.
func (s *service) audit(ctx context.Context, event AuditEvent) {
	if s.auditSink == nil {
		return
	}
	if err := s.auditSink.Log(ctx, event); err != nil {
		s.logger.Warn("audit sink failed", "event", event.Type, "asset_id", event.AssetID, "error", err)
	}
}

// scrub zero-fills a working buffer. Transform buffers hold user content, so
// they are cleared on every exit path instead of waiting for the collector.
func scrub(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
