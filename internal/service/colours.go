// Package service runs the fetch, extract and rank stages for one image URL.
package service

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/hexit/internal/colour"
	hexerr "github.com/jmylchreest/hexit/internal/errors"
	"github.com/jmylchreest/hexit/internal/rank"
)

// Fetcher retrieves raw image bytes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ColorResult is the outcome of a successful extraction.
type ColorResult struct {
	ImageURL string   `json:"imageUrl"`
	Colors   []string `json:"colors"`
}

// Detail is a ColorResult plus the swatches it was ranked from.
type Detail struct {
	ColorResult
	Swatches colour.SwatchSet `json:"swatches"`
}

// ColourService is stateless across calls; each call fetches, extracts and
// ranks sequentially.
type ColourService struct {
	fetcher   Fetcher
	extractor colour.Extractor
	ranker    rank.Ranker
	logger    hclog.Logger
}

// NewColourService wires the three stages together.
func NewColourService(fetcher Fetcher, extractor colour.Extractor, ranker rank.Ranker, logger hclog.Logger) *ColourService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ColourService{
		fetcher:   fetcher,
		extractor: extractor,
		ranker:    ranker,
		logger:    logger.Named("colours"),
	}
}

// Colours returns up to two representative colours for the image at url.
func (s *ColourService) Colours(ctx context.Context, url string) (*ColorResult, error) {
	detail, err := s.Detail(ctx, url)
	if err != nil {
		return nil, err
	}
	return &detail.ColorResult, nil
}

// Detail is Colours with the intermediate swatches kept.
func (s *ColourService) Detail(ctx context.Context, url string) (*Detail, error) {
	if url == "" {
		return nil, hexerr.MissingField("url")
	}

	start := time.Now()
	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, &hexerr.FetchError{URL: url, Err: err}
	}
	s.logger.Debug("fetched image", "url", url, "size", humanize.Bytes(uint64(len(data))), "elapsed", time.Since(start))

	swatches, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("extracted swatches", "url", url, "count", swatches.Len())

	colours, err := s.ranker.Rank(swatches)
	if err != nil {
		return nil, err
	}

	return &Detail{
		ColorResult: ColorResult{ImageURL: url, Colors: colours},
		Swatches:    swatches,
	}, nil
}
