package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/booksphere/booksphere-server/internal/http/response"
)

// handleSignedFile serves a background image addressed by a signed URL
// token. Registered directly on chi because huma handlers cannot stream
// files.
func (s *Server) handleSignedFile(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		response.BadRequest(w, "Missing file token", s.logger)
		return
	}

	payload, err := s.signer.Verify(token)
	if err != nil {
		response.Unauthorized(w, "Invalid or expired file URL", s.logger)
		return
	}

	// The signed path is relative to the data directory; reject anything
	// that escapes it.
	rel := filepath.Clean(payload.FilePath)
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		response.Forbidden(w, "Invalid file path", s.logger)
		return
	}

	http.ServeFile(w, r, filepath.Join(s.backgroundsDir, rel))
}
