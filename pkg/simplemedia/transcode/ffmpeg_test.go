package transcode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tendant/simple-media/pkg/simplemedia"
)

func TestTranscodeArgs(t *testing.T) {
	preset := simplemedia.RenditionPreset{
		Name:         "720p",
		Height:       720,
		VideoBitrate: "2500k",
		AudioBitrate: "128k",
	}

	args := transcodeArgs("in.mp4", "out.mp4", preset)

	assert.Contains(t, args, "scale=-2:720")
	assert.Contains(t, args, "2500k")
	assert.Contains(t, args, "128k")
	assert.Contains(t, args, "frag_keyframe+empty_moov")
	assert.Equal(t, "out.mp4", args[len(args)-1])
}

func TestExtractFrameArgs(t *testing.T) {
	args := extractFrameArgs("in.mp4", "poster.jpg", 12.5)

	assert.Equal(t, []string{
		"-y",
		"-ss", "12.500",
		"-i", "in.mp4",
		"-vframes", "1",
		"-q:v", "2",
		"poster.jpg",
	}, args)
}

func TestExtractFrameRejectsBadFraction(t *testing.T) {
	f := New()

	_, err := f.ExtractFrame(context.Background(), []byte("data"), -0.1)
	assert.Error(t, err)

	_, err = f.ExtractFrame(context.Background(), []byte("data"), 1.5)
	assert.Error(t, err)
}

func TestLastLine(t *testing.T) {
	assert.Equal(t, "conversion failed", lastLine("frame=1\nframe=2\nconversion failed\n"))
	assert.Equal(t, "", lastLine("\n\n"))
}
