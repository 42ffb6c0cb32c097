package api

import (
	"net/http"

	"github.com/platinummonkey/reel/pkg/httputil"
)

// listLanguages handles GET /api/v1/languages
func (s *Server) listLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := s.store.ListLanguages(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, languages)
}

// getLanguage handles GET /api/v1/languages/{id}
func (s *Server) getLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	language, err := s.store.GetLanguage(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, language)
}
