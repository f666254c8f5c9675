package simplemedia

import "github.com/google/uuid"

// Request DTOs

// UploadImageRequest contains parameters for a synchronous image upload.
type UploadImageRequest struct {
	OwnerID     uuid.UUID
	ContentType string
	FileName    string
	Data        []byte
	Tags        []string
}

// UploadVideoRequest contains parameters for a video upload. The request
// returns once the original is stored; transcoding continues in the
// background.
type UploadVideoRequest struct {
	OwnerID     uuid.UUID
	ContentType string
	FileName    string
	Data        []byte
	Tags        []string
}
