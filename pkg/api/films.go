package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/platinummonkey/reel/pkg/catalog"
	"github.com/platinummonkey/reel/pkg/httputil"
	"github.com/platinummonkey/reel/pkg/observability"
	"github.com/platinummonkey/reel/pkg/storage"
)

// listFilms handles GET /api/v1/films?page=&size=
func (s *Server) listFilms(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	films, err := s.store.ListFilms(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, films)
}

// getFilm handles GET /api/v1/films/{id}
func (s *Server) getFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	film, err := s.store.GetFilm(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, film)
}

// createFilm handles POST /api/v1/films
func (s *Server) createFilm(w http.ResponseWriter, r *http.Request) {
	var req FilmRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if details := s.validator.Validate(&req); details != nil {
		writeValidationErrors(w, r, details)
		return
	}

	var film catalog.Film
	req.apply(&film)
	if err := s.resolveLanguages(r.Context(), &film); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.store.CreateFilm(r.Context(), &film); err != nil {
		writeError(w, r, err)
		return
	}

	observability.FromContext(r.Context()).WithField("film_id", film.ID).Info("Film created")
	httputil.WriteCreated(w, &film)
}

// updateFilm handles PUT /api/v1/films/{id}
func (s *Server) updateFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req FilmRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if details := s.validator.Validate(&req); details != nil {
		writeValidationErrors(w, r, details)
		return
	}

	film, err := s.store.GetFilm(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req.apply(film)
	if err := s.resolveLanguages(r.Context(), film); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.store.UpdateFilm(r.Context(), film); err != nil {
		writeError(w, r, err)
		return
	}

	observability.FromContext(r.Context()).WithField("film_id", film.ID).Info("Film updated")
	httputil.WriteSuccess(w, film)
}

// deleteFilm handles DELETE /api/v1/films/{id}
func (s *Server) deleteFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.store.DeleteFilm(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	observability.FromContext(r.Context()).WithField("film_id", id).Info("Film deleted")
	httputil.WriteNoContent(w)
}

// findFilmsByYear handles GET /api/v1/films/search/year/{year}
func (s *Server) findFilmsByYear(w http.ResponseWriter, r *http.Request) {
	year, ok := httputil.ParsePathIntOrError(w, r, "year")
	if !ok {
		return
	}

	films, err := s.store.FindFilmsByReleaseYear(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, films)
}

// findFilmsByRating handles GET /api/v1/films/search/rating/{rating}
func (s *Server) findFilmsByRating(w http.ResponseWriter, r *http.Request) {
	label, err := httputil.ParsePathString(r, "rating")
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	rating, err := catalog.ParseRating(label)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	films, err := s.store.FindFilmsByRating(r.Context(), rating)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, films)
}

// findFilmsLongerThan handles GET /api/v1/films/search/longer-than/{minutes}
func (s *Server) findFilmsLongerThan(w http.ResponseWriter, r *http.Request) {
	minutes, ok := httputil.ParsePathIntOrError(w, r, "minutes")
	if !ok {
		return
	}

	films, err := s.store.FindFilmsLongerThan(r.Context(), minutes)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, films)
}

// searchFilmsByTitle handles GET /api/v1/films/search/title?keyword=&page=&size=
func (s *Server) searchFilmsByTitle(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("keyword") {
		httputil.WriteBadRequest(w, "Required request parameter 'keyword' is not present")
		return
	}
	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	films, err := s.store.SearchFilmsByTitle(r.Context(), r.URL.Query().Get("keyword"), page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, films)
}

// findFilmsByLanguage handles GET /api/v1/films/search/language/{languageName}
func (s *Server) findFilmsByLanguage(w http.ResponseWriter, r *http.Request) {
	name, err := httputil.ParsePathString(r, "languageName")
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	films, err := s.store.FindFilmsByLanguageName(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, films)
}

// resolveLanguages checks that the film's languages exist and fills in
// LanguageName. A missing original language gets its own message.
func (s *Server) resolveLanguages(ctx context.Context, film *catalog.Film) error {
	language, err := s.store.GetLanguage(ctx, film.LanguageID)
	if err != nil {
		return err
	}
	film.LanguageName = language.Name

	if film.OriginalLanguageID == nil {
		observability.FromContext(ctx).Debug("Original language ID is null, setting originalLanguage to null")
		return nil
	}

	_, err = s.store.GetLanguage(ctx, *film.OriginalLanguageID)
	if errors.Is(err, storage.ErrNotFound) {
		return &storage.NotFoundError{Resource: "Original language", ID: *film.OriginalLanguageID}
	}
	return err
}
