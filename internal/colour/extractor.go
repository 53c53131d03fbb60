package colour

import (
	"context"
	"errors"
	"fmt"
	"image"

	hexerr "github.com/jmylchreest/hexit/internal/errors"
	imageutil "github.com/jmylchreest/hexit/internal/image"
)

// Extractor turns raw image bytes into named swatches. Implementations may
// leave any swatch name absent.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (SwatchSet, error)
}

// ExtractorConfig holds configuration for swatch extraction.
type ExtractorConfig struct {
	// ColourCount is the number of colours the image is quantised to before
	// classification.
	ColourCount int `toml:"colour_count"`
	// Quality samples every Nth pixel in each direction. 1 is every pixel.
	Quality int `toml:"quality"`
	// MaxDimension downscales larger images before sampling. 0 disables.
	MaxDimension int `toml:"max_dimension"`
	// MaxPixels rejects images whose header declares more pixels, before
	// decoding. 0 disables.
	MaxPixels int `toml:"max_pixels"`
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		ColourCount:  64,
		Quality:      5,
		MaxDimension: 256,
		MaxPixels:    40_000_000,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if c.ColourCount < 2 {
		return fmt.Errorf("colour count must be at least 2, got %d", c.ColourCount)
	}
	if c.ColourCount > 256 {
		return fmt.Errorf("colour count too large: %d (maximum: 256)", c.ColourCount)
	}
	if c.Quality < 1 {
		return fmt.Errorf("quality must be at least 1, got %d", c.Quality)
	}
	if c.MaxDimension < 0 {
		return fmt.Errorf("max dimension cannot be negative, got %d", c.MaxDimension)
	}
	if c.MaxPixels < 0 {
		return fmt.Errorf("max pixels cannot be negative, got %d", c.MaxPixels)
	}
	return nil
}

// VibrantExtractor quantises an image with median cut and sorts the result
// into the six vibrant/muted swatch categories.
type VibrantExtractor struct {
	config ExtractorConfig
}

// NewVibrantExtractor creates an extractor. Invalid settings fall back to
// their defaults.
func NewVibrantExtractor(config ExtractorConfig) *VibrantExtractor {
	defaults := DefaultExtractorConfig()
	if config.ColourCount < 2 || config.ColourCount > 256 {
		config.ColourCount = defaults.ColourCount
	}
	if config.Quality < 1 {
		config.Quality = defaults.Quality
	}
	if config.MaxDimension < 0 {
		config.MaxDimension = defaults.MaxDimension
	}
	if config.MaxPixels < 0 {
		config.MaxPixels = defaults.MaxPixels
	}
	return &VibrantExtractor{config: config}
}

// Extract decodes data and returns its swatches.
func (e *VibrantExtractor) Extract(ctx context.Context, data []byte) (SwatchSet, error) {
	img, _, err := imageutil.Load(data, e.config.MaxDimension, e.config.MaxPixels)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.ExtractImage(img)
}

// ExtractImage returns the swatches of an already decoded image.
// An image with no opaque, non-white pixels yields an empty set.
func (e *VibrantExtractor) ExtractImage(img image.Image) (SwatchSet, error) {
	if img == nil {
		return nil, &hexerr.MalformedImageError{Format: "unknown", Err: errors.New("image cannot be nil")}
	}

	colours, err := quantise(img, e.config.ColourCount, e.config.Quality)
	if err != nil {
		if errors.Is(err, errNoEligiblePixels) {
			return SwatchSet{}, nil
		}
		return nil, fmt.Errorf("failed to quantise image: %w", err)
	}

	return classifySwatches(colours), nil
}
