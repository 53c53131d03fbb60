// Package image decodes fetched image bytes and prepares them for palette
// extraction.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"net/http"

	_ "github.com/gen2brain/avif" // Register AVIF format
	_ "golang.org/x/image/bmp"    // Register BMP format
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	hexerr "github.com/jmylchreest/hexit/internal/errors"
)

// SupportedFormats lists the format names registered with the decoder.
func SupportedFormats() []string {
	return []string{"jpeg", "png", "gif", "webp", "bmp", "tiff", "avif"}
}

// Decode decodes raw image bytes in any registered format.
// Unknown formats yield *errors.UnsupportedFormatError; recognised but corrupt
// data yields *errors.MalformedImageError. When maxPixels is positive the
// header is read first and larger images are rejected with
// *errors.ImageTooLargeError before any pixel buffer is allocated.
func Decode(data []byte, maxPixels int) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", &hexerr.UnsupportedFormatError{Err: errors.New("empty image data")}
	}

	if maxPixels > 0 {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, format, decodeError(data, format, err)
		}
		if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
			return nil, format, &hexerr.ImageTooLargeError{
				Format:    format,
				Width:     cfg.Width,
				Height:    cfg.Height,
				MaxPixels: maxPixels,
			}
		}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, decodeError(data, format, err)
	}

	return img, format, nil
}

func decodeError(data []byte, format string, err error) error {
	if errors.Is(err, image.ErrFormat) {
		return &hexerr.UnsupportedFormatError{
			ContentType: http.DetectContentType(data),
			Err:         err,
		}
	}
	return &hexerr.MalformedImageError{Format: format, Err: err}
}

// Downscale returns img scaled so its longest side is at most maxDimension.
// Images already within bounds, or a non-positive maxDimension, are returned
// unchanged.
func Downscale(img image.Image, maxDimension int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if maxDimension <= 0 || (width <= maxDimension && height <= maxDimension) {
		return img
	}

	scale := float64(maxDimension) / float64(max(width, height))
	dstWidth := max(int(float64(width)*scale), 1)
	dstHeight := max(int(float64(height)*scale), 1)

	dst := image.NewNRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// Load decodes data within the maxPixels budget and downscales the result,
// returning the detected format.
func Load(data []byte, maxDimension, maxPixels int) (image.Image, string, error) {
	img, format, err := Decode(data, maxPixels)
	if err != nil {
		return nil, format, err
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, format, &hexerr.MalformedImageError{Format: format, Err: fmt.Errorf("image has no pixels")}
	}

	return Downscale(img, maxDimension), format, nil
}
