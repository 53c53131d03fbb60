package api

import (
	"encoding/json"
	"net/http"

	hexerr "github.com/jmylchreest/hexit/internal/errors"
)

// User-facing error messages. Raw error text never reaches a response.
const (
	MsgURLRequired       = "Image URL is required."
	MsgUnsupportedFormat = "Unsupported image format. Please try a different image (e.g., JPEG, PNG, GIF)."
	MsgFetchFailed       = "Could not fetch the image from the provided URL. Please check the link and try again."
	MsgNoColors          = "Could not extract any dominant colors from the image."
	MsgUnknown           = "Failed to process image from URL."
	MsgMethodNotAllowed  = "Method not allowed."
)

// ErrorResult is the body of every failed request.
type ErrorResult struct {
	Error string `json:"error"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Classify maps an error to its HTTP status and user-facing message.
func Classify(err error) (int, string) {
	switch {
	case hexerr.IsValidation(err):
		return http.StatusBadRequest, MsgURLRequired
	case hexerr.IsUnsupportedFormat(err):
		return http.StatusInternalServerError, MsgUnsupportedFormat
	case hexerr.IsFetchFailed(err):
		return http.StatusInternalServerError, MsgFetchFailed
	case hexerr.IsNoColors(err):
		return http.StatusUnprocessableEntity, MsgNoColors
	default:
		return http.StatusInternalServerError, MsgUnknown
	}
}

// Error writes an error response, mapping domain errors to HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status, message := Classify(err)
	JSON(w, status, ErrorResult{Error: message})
}
