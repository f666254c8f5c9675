// Package simplemedia provides a reusable media ingestion pipeline with
// pluggable registry and blob storage backends.
//
// It exposes a single Service interface that orchestrates validation,
// transformation and storage of user-submitted images and videos. Image
// uploads run synchronously: the original is normalized, every configured
// thumbnail is produced and uploaded, and one active registry record is
// written. Video uploads store the original and return immediately; a
// detached background job transcodes the configured rendition ladder,
// extracts a poster frame, and settles the record to ready or failed.
//
// Implementations of registries (memory, Postgres) and blob stores (memory,
// filesystem, S3) are provided under subpackages, along with the image
// engine (imageproc) and the ffmpeg-backed encoder (transcode).
package simplemedia
