package asset

import (
	"bytes"
	"fmt"
	"image"
	"mime"
	"path"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ExtensionFor maps a declared content type onto the stored file extension.
func ExtensionFor(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}

	ext, ok := extensions[strings.ToLower(mediaType)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, mediaType)
	}
	return ext, nil
}

// LogicalName strips any directory and everything from the first dot onward,
// so "holiday/sunset.final.jpg" becomes "sunset".
func LogicalName(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	name, _, _ := strings.Cut(base, ".")
	return strings.TrimSpace(name)
}

// Dimensions decodes the image header and returns its pixel size.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return cfg.Width, cfg.Height, nil
}

func validateLogicalName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
