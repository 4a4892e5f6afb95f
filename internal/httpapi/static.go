package httpapi

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// StaticHandler serves the built UI. Paths that are not files fall back to
// index.html so client-side routes work; without an index it is a 404.
type StaticHandler struct {
	Dir string
}

func (h StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Dir == "" {
		WriteError(w, r, http.StatusNotFound, "not_found", "not found")
		return
	}
	clean := path.Clean("/" + r.URL.Path)
	if strings.HasPrefix(clean, "/api/") {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such endpoint")
		return
	}

	full := filepath.Join(h.Dir, filepath.FromSlash(clean))
	if fi, err := os.Stat(full); err == nil && !fi.IsDir() {
		http.ServeFile(w, r, full)
		return
	}

	index := filepath.Join(h.Dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		WriteError(w, r, http.StatusNotFound, "not_found", "not found")
		return
	}
	http.ServeFile(w, r, index)
}
