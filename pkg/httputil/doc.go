// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Overview
//
// This package offers helper functions for JSON encoding/decoding, error responses,
// parameter parsing, and the generic middleware the API server chains in front of
// its router.
//
// # Response Helpers
//
// Every error body has the shape {"message": "..."}; validation failures add a
// "details" map keyed by field:
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteCreated(w, film)
//	httputil.WriteNotFoundError(w, "Film not found with id: 7")
//	httputil.WriteInternalError(w, err) // "An unexpected error occurred: ..."
//
// # Request Parsing
//
//	var req FilmRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // Error response already written
//	}
//
//	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
//	page, err := httputil.ParseQueryInt(r, "page", 0)
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RecoveryMiddleware,
//		httputil.CORSMiddleware(origins),
//		httputil.MaxBytesMiddleware(1<<20),
//	)
//
// # Related Packages
//
//   - pkg/middleware: request logging and rate limiting
package httputil
