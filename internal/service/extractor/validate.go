package extractor

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/pkg/errors"
)

const (
	minImageSide = 200
	maxImageSide = 2000
)

var ErrInvalidImage = errors.New("invalid image format")

// ValidateImage runs the cheap local checks before an image is shipped to
// the extraction service: recognizable format and sane dimensions.
func ValidateImage(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ErrInvalidImage
	}

	if cfg.Width < minImageSide || cfg.Height < minImageSide {
		return errors.Wrap(ErrLowQuality, "image resolution too low (minimum 200x200)")
	}
	if cfg.Width > maxImageSide || cfg.Height > maxImageSide {
		return errors.Wrap(ErrLowQuality, "image resolution too high (maximum 2000x2000)")
	}

	return nil
}
