package simplemedia

import "fmt"

// Content type whitelists per asset kind. Membership is checked before any
// storage or transform work begins.
var (
	imageFormats = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}

	videoFormats = map[string]bool{
		"video/mp4":  true,
		"video/webm": true,
	}
)

// ValidateFormat checks a declared content type against the whitelist for the
// given asset kind and returns ErrUnsupportedFormat on rejection.
func ValidateFormat(kind AssetKind, contentType string) error {
	var ok bool
	switch kind {
	case KindImage:
		ok = imageFormats[contentType]
	case KindVideo:
		ok = videoFormats[contentType]
	}
	if !ok {
		return fmt.Errorf("%w: %q for kind %s", ErrUnsupportedFormat, contentType, kind)
	}
	return nil
}
