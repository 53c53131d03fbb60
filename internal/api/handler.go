// Package api serves the colour endpoint and the browser UI.
package api

import (
	"context"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/hexit/internal/service"
	"github.com/jmylchreest/hexit/internal/version"
)

// ColourFinder is the part of the colour service the handler needs.
type ColourFinder interface {
	Colours(ctx context.Context, url string) (*service.ColorResult, error)
}

// Handler holds the API dependencies.
type Handler struct {
	colours ColourFinder
	logger  hclog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(colours ColourFinder, logger hclog.Logger) *Handler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Handler{colours: colours, logger: logger}
}

// RegisterRoutes sets up all API routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v2", h.GetColours)
	mux.HandleFunc("/healthz", h.Health)
	mux.Handle("/", h.StaticHandler())
}

// Routes returns the full handler chain.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return RequestID(Logging(h.logger, mux))
}

// GetColours handles GET /v2?url=.
func (h *Handler) GetColours(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		JSON(w, http.StatusMethodNotAllowed, ErrorResult{Error: MsgMethodNotAllowed})
		return
	}

	imageURL := r.URL.Query().Get("url")
	if imageURL == "" {
		JSON(w, http.StatusBadRequest, ErrorResult{Error: MsgURLRequired})
		return
	}

	result, err := h.colours.Colours(r.Context(), imageURL)
	if err != nil {
		status, _ := Classify(err)
		h.logger.Error("colour extraction failed",
			"url", imageURL,
			"status", status,
			"request_id", RequestIDFrom(r.Context()),
			"error", err,
		)
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, result)
}

// Health reports liveness and build metadata.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, struct {
		Status string       `json:"status"`
		Build  version.Info `json:"build"`
	}{Status: "ok", Build: version.Get()})
}
