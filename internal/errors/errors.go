// Package errors defines the error taxonomy shared by the fetch, extract and
// rank stages. Each typed error unwraps to a sentinel so callers can classify
// with errors.Is or errors.As without caring which stage produced it.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrFetchFailed       = errors.New("image fetch failed")
	ErrNoColors          = errors.New("no dominant colours")
)

// ValidationError indicates invalid user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// UnsupportedFormatError indicates the image bytes are not in any
// registered format.
type UnsupportedFormatError struct {
	// ContentType is the sniffed MIME type of the payload, if any.
	ContentType string
	Err         error
}

func (e *UnsupportedFormatError) Error() string {
	if e.ContentType != "" {
		return fmt.Sprintf("unsupported image type %s: %v", e.ContentType, e.Err)
	}
	return fmt.Sprintf("unsupported image type: %v", e.Err)
}

func (e *UnsupportedFormatError) Unwrap() []error {
	return []error{ErrUnsupportedFormat, e.Err}
}

// MalformedImageError indicates a recognised format whose data could not be
// decoded (truncated or corrupt).
type MalformedImageError struct {
	Format string
	Err    error
}

func (e *MalformedImageError) Error() string {
	return fmt.Sprintf("malformed %s image: %v", e.Format, e.Err)
}

func (e *MalformedImageError) Unwrap() []error {
	return []error{ErrUnsupportedFormat, e.Err}
}

// ImageTooLargeError indicates the image header declares more pixels than
// the decoder is allowed to allocate.
type ImageTooLargeError struct {
	Format        string
	Width, Height int
	MaxPixels     int
}

func (e *ImageTooLargeError) Error() string {
	return fmt.Sprintf("%s image is %dx%d, exceeds limit of %d pixels", e.Format, e.Width, e.Height, e.MaxPixels)
}

func (e *ImageTooLargeError) Unwrap() error {
	return ErrUnsupportedFormat
}

// FetchError indicates the image could not be retrieved from its URL.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Err}
}

// ExtractionEmptyError indicates the image was processed but yielded no
// usable swatches.
type ExtractionEmptyError struct{}

func (e *ExtractionEmptyError) Error() string {
	return "no dominant colours could be extracted"
}

func (e *ExtractionEmptyError) Unwrap() error {
	return ErrNoColors
}

// MissingField reports a required field with no value.
func MissingField(field string) error {
	return &ValidationError{Field: field, Message: "value is required"}
}


// IsUnsupportedFormat reports whether err is an unsupported or malformed
// image error.
func IsUnsupportedFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}

// IsFetchFailed reports whether err is a fetch failure.
func IsFetchFailed(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}

// IsNoColors reports whether err means no colours were extracted.
func IsNoColors(err error) bool {
	return errors.Is(err, ErrNoColors)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
