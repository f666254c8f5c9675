// Package mediakey builds deterministic blob-store keys for media assets.
//
// Keys are pure functions of (owner, filename stem, variant name), so every
// blob an asset references can be enumerated from its registry record alone.
package mediakey

import (
	"fmt"
	"strings"
)

// ImageOriginal returns the key for a normalized image original:
// images/{owner}/{stem}
func ImageOriginal(ownerID, stem string) string {
	return fmt.Sprintf("images/%s/%s", sanitize(ownerID), sanitize(stem))
}

// ImageThumbnail returns the key for an image thumbnail variant:
// images/{owner}/thumbnails/{variant}/{stem}
func ImageThumbnail(ownerID, variant, stem string) string {
	return fmt.Sprintf("images/%s/thumbnails/%s/%s", sanitize(ownerID), sanitize(variant), sanitize(stem))
}

// VideoOriginal returns the key for an unmodified video original:
// videos/{owner}/{stem}
func VideoOriginal(ownerID, stem string) string {
	return fmt.Sprintf("videos/%s/%s", sanitize(ownerID), sanitize(stem))
}

// VideoRendition returns the key for a transcoded rendition:
// videos/{owner}/variants/{preset}/{stem}
func VideoRendition(ownerID, preset, stem string) string {
	return fmt.Sprintf("videos/%s/variants/%s/%s", sanitize(ownerID), sanitize(preset), sanitize(stem))
}

// VideoPoster returns the key for the poster frame:
// videos/{owner}/thumbnails/{stem}.jpg
func VideoPoster(ownerID, stem string) string {
	return fmt.Sprintf("videos/%s/thumbnails/%s.jpg", sanitize(ownerID), sanitize(stem))
}

var componentReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "_",
)

// sanitize replaces characters that are unsafe in a key path component.
func sanitize(component string) string {
	return componentReplacer.Replace(component)
}
