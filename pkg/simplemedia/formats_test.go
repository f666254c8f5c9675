package simplemedia

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name        string
		kind        AssetKind
		contentType string
		expectError bool
	}{
		{"jpeg image", KindImage, "image/jpeg", false},
		{"png image", KindImage, "image/png", false},
		{"webp image", KindImage, "image/webp", false},
		{"mp4 video", KindVideo, "video/mp4", false},
		{"webm video", KindVideo, "video/webm", false},
		{"gif rejected", KindImage, "image/gif", true},
		{"svg rejected", KindImage, "image/svg+xml", true},
		{"avi rejected", KindVideo, "video/x-msvideo", true},
		{"image type for video kind", KindVideo, "image/jpeg", true},
		{"video type for image kind", KindImage, "video/mp4", true},
		{"empty content type", KindImage, "", true},
		{"case sensitive", KindImage, "Image/JPEG", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.kind, tt.contentType)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
