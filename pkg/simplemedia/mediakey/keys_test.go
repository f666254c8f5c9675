package mediakey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendant/simple-media/pkg/simplemedia/mediakey"
)

func TestKeyTemplates(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "image original",
			got:  mediakey.ImageOriginal("owner-1", "stem-1"),
			want: "images/owner-1/stem-1",
		},
		{
			name: "image thumbnail",
			got:  mediakey.ImageThumbnail("owner-1", "small", "stem-1"),
			want: "images/owner-1/thumbnails/small/stem-1",
		},
		{
			name: "video original",
			got:  mediakey.VideoOriginal("owner-1", "stem-2"),
			want: "videos/owner-1/stem-2",
		},
		{
			name: "video rendition",
			got:  mediakey.VideoRendition("owner-1", "720p", "stem-2"),
			want: "videos/owner-1/variants/720p/stem-2",
		},
		{
			name: "video poster",
			got:  mediakey.VideoPoster("owner-1", "stem-2"),
			want: "videos/owner-1/thumbnails/stem-2.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestKeysAreDeterministic(t *testing.T) {
	a := mediakey.VideoRendition("owner", "480p", "stem")
	b := mediakey.VideoRendition("owner", "480p", "stem")
	assert.Equal(t, a, b)
}

func TestSanitizesPathComponents(t *testing.T) {
	key := mediakey.ImageThumbnail("owner", "small", "a/b c")
	assert.Equal(t, "images/owner/thumbnails/small/a_b_c", key)

	assert.NotContains(t, mediakey.VideoOriginal("own*er", "st:em"), "*")
	assert.NotContains(t, mediakey.VideoOriginal("own*er", "st:em"), ":")
}
