package imageproc_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-media/pkg/simplemedia"
	"github.com/tendant/simple-media/pkg/simplemedia/imageproc"
)

// testImage encodes a solid-color PNG of the given size.
func testImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestNormalizeBoundsLongestEdge(t *testing.T) {
	engine := imageproc.New()

	out, err := engine.Normalize(testImage(t, 4000, 3000))
	require.NoError(t, err)

	w, h := decodeDims(t, out)
	assert.Equal(t, 2000, w)
	assert.Equal(t, 1500, h)
}

func TestNormalizeNeverUpscales(t *testing.T) {
	engine := imageproc.New()

	out, err := engine.Normalize(testImage(t, 800, 600))
	require.NoError(t, err)

	w, h := decodeDims(t, out)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestNormalizeReencodesAsJPEG(t *testing.T) {
	engine := imageproc.New()

	out, err := engine.Normalize(testImage(t, 100, 100))
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestThumbnailCoversTargetBox(t *testing.T) {
	engine := imageproc.New()

	tests := []struct {
		name string
		spec simplemedia.ThumbnailSpec
	}{
		{"small", simplemedia.ThumbnailSpec{Name: "small", Width: 320, Height: 320}},
		{"medium", simplemedia.ThumbnailSpec{Name: "medium", Width: 640, Height: 640}},
		{"wide", simplemedia.ThumbnailSpec{Name: "wide", Width: 400, Height: 225}},
	}

	src := testImage(t, 1600, 900)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := engine.Thumbnail(src, tt.spec)
			require.NoError(t, err)

			w, h := decodeDims(t, out)
			assert.Equal(t, tt.spec.Width, w)
			assert.Equal(t, tt.spec.Height, h)
		})
	}
}

func TestDecodeFailureOnGarbage(t *testing.T) {
	engine := imageproc.New()

	_, err := engine.Normalize([]byte("not an image"))
	assert.Error(t, err)

	_, err = engine.Thumbnail([]byte("still not an image"), simplemedia.ThumbnailSpec{Width: 10, Height: 10})
	assert.Error(t, err)
}

func TestCustomMaxEdge(t *testing.T) {
	engine := imageproc.New(imageproc.WithMaxEdge(500))
	assert.Equal(t, 500, engine.MaxEdge())

	out, err := engine.Normalize(testImage(t, 1000, 400))
	require.NoError(t, err)

	w, h := decodeDims(t, out)
	assert.Equal(t, 500, w)
	assert.Equal(t, 200, h)
}
