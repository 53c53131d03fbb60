package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web/*
var staticFiles embed.FS

// StaticHandler returns a handler that serves the embedded UI.
func (h *Handler) StaticHandler() http.Handler {
	fsys, _ := fs.Sub(staticFiles, "web")
	fileServer := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}
