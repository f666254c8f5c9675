// Package imageproc implements the synchronous image transform engine on
// top of disintegration/imaging.
package imageproc

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// Register decoders for the whitelisted input formats. JPEG and PNG come
	// with imaging; webp needs the x/image decoder.
	_ "golang.org/x/image/webp"

	"github.com/tendant/simple-media/pkg/simplemedia"
)

const (
	defaultMaxEdge = 2000
	defaultQuality = 85
)

// Engine normalizes images and produces thumbnail variants. All output is
// re-encoded as JPEG at a fixed quality.
type Engine struct {
	maxEdge int
	quality int
	filter  imaging.ResampleFilter
}

// Option configures an Engine
type Option func(*Engine)

// WithMaxEdge bounds the longest edge of normalized originals
func WithMaxEdge(px int) Option {
	return func(e *Engine) {
		e.maxEdge = px
	}
}

// WithQuality sets the JPEG quality for re-encoding (1-100)
func WithQuality(q int) Option {
	return func(e *Engine) {
		e.quality = q
	}
}

// New creates an image engine with the given options
func New(options ...Option) *Engine {
	e := &Engine{
		maxEdge: defaultMaxEdge,
		quality: defaultQuality,
		filter:  imaging.Lanczos,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// MaxEdge returns the configured longest-edge bound.
func (e *Engine) MaxEdge() int {
	return e.maxEdge
}

// Normalize bounds the longest edge to the configured maximum, preserving
// aspect ratio and never upscaling, then re-encodes as JPEG.
func (e *Engine) Normalize(data []byte) ([]byte, error) {
	img, err := e.decode(data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() > e.maxEdge || bounds.Dy() > e.maxEdge {
		// Fit scales down only, which preserves the never-upscale rule.
		img = imaging.Fit(img, e.maxEdge, e.maxEdge, e.filter)
	}

	return e.encode(img)
}

// Thumbnail scales and crops the image to cover the spec's target box
// exactly, then re-encodes as JPEG.
func (e *Engine) Thumbnail(data []byte, spec simplemedia.ThumbnailSpec) ([]byte, error) {
	img, err := e.decode(data)
	if err != nil {
		return nil, err
	}

	filled := imaging.Fill(img, spec.Width, spec.Height, imaging.Center, e.filter)
	return e.encode(filled)
}

func (e *Engine) decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func (e *Engine) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(e.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
