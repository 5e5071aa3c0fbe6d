package server

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"
)

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	menu := s.menus.Menu(r.Context(), r.PathValue("source"), queryBool(r, "force"))
	writeJSON(w, http.StatusOK, menu)
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	menus := s.menus.All(r.Context(), queryBool(r, "forceAll"))
	writeJSON(w, http.StatusOK, menus)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.now().Format(time.RFC3339),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"mapsKey": s.mapsAPIKey,
	})
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"message": fmt.Sprintf("Route %s (%s) not found", r.URL.Path, r.Method),
	})
}

// fallback serves the static client. Paths that are not files get index.html so the
// client can route them itself.
func (s *Server) fallback() http.Handler {
	if s.staticDir == "" {
		return http.HandlerFunc(handleNotFound)
	}
	files := http.FileServer(http.Dir(s.staticDir))
	index := filepath.Join(s.staticDir, "index.html")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			handleNotFound(w, r)
			return
		}
		name := filepath.Join(s.staticDir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, index)
	})
}

// queryBool reads a boolean query flag. Anything unparseable is false.
func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
