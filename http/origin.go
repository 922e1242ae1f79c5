package http

import (
	"net/http"
	"path/filepath"
)

// NewOriginHandler builds the application origin: the content tree
// (markdown files and the generated index) under /content/, and the
// viewer's static assets at the root when staticDir is set.
func NewOriginHandler(contentDir, staticDir string) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/content/", http.StripPrefix("/content/", http.FileServer(http.Dir(contentDir))))

	if staticDir != "" {
		RegisterPWARoutes(mux, staticDir)
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	return mux
}

// RegisterPWARoutes adds the worker registration surface. Both files
// are served from the origin root so the worker's control scope
// covers the entire site; fixed names get no-cache headers so a new
// deployment is picked up on the next load.
func RegisterPWARoutes(mux *http.ServeMux, staticDir string) {
	mux.HandleFunc("/sw.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Service-Worker-Allowed", "/")
		http.ServeFile(w, r, filepath.Join(staticDir, "sw.js"))
	})

	mux.HandleFunc("/manifest.webmanifest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/manifest+json")
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, filepath.Join(staticDir, "manifest.webmanifest"))
	})
}
