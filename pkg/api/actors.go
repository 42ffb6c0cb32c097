package api

import (
	"net/http"

	"github.com/platinummonkey/reel/pkg/catalog"
	"github.com/platinummonkey/reel/pkg/httputil"
)

// listActors handles GET /api/v1/actors
func (s *Server) listActors(w http.ResponseWriter, r *http.Request) {
	actors, err := s.store.ListActors(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, actors)
}

// getActor handles GET /api/v1/actors/{id}
func (s *Server) getActor(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	actor, err := s.store.GetActor(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, actor)
}

// createActor handles POST /api/v1/actors. It answers 200, not 201.
func (s *Server) createActor(w http.ResponseWriter, r *http.Request) {
	var req ActorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if details := s.validator.Validate(&req); details != nil {
		writeValidationErrors(w, r, details)
		return
	}

	actor := &catalog.Actor{FirstName: req.FirstName, LastName: req.LastName}
	if err := s.store.CreateActor(r.Context(), actor); err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, actor)
}

// updateActor handles PUT /api/v1/actors/{id}
func (s *Server) updateActor(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req ActorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if details := s.validator.Validate(&req); details != nil {
		writeValidationErrors(w, r, details)
		return
	}

	actor := &catalog.Actor{ID: id, FirstName: req.FirstName, LastName: req.LastName}
	if err := s.store.UpdateActor(r.Context(), actor); err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, actor)
}

// deleteActor handles DELETE /api/v1/actors/{id} with an empty 200
func (s *Server) deleteActor(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.store.DeleteActor(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
