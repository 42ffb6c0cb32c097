package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/platinummonkey/reel/pkg/httputil"
	"github.com/platinummonkey/reel/pkg/observability"
	"github.com/platinummonkey/reel/pkg/storage"
)

const validationFailedMessage = "Validation failed"

// writeError maps err to a response. Missing resources are 404, everything
// else is 500. Both are logged at error level with the request's correlation id.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := observability.FromContext(r.Context())

	if errors.Is(err, storage.ErrNotFound) {
		logger.Errorf("Resource not found: %s", err)
		httputil.WriteNotFoundError(w, err.Error())
		return
	}

	logger.WithError(err).Error("Unexpected error")
	httputil.WriteInternalError(w, err)
}

func writeValidationErrors(w http.ResponseWriter, r *http.Request, details map[string]string) {
	fields := make(map[string]interface{}, len(details))
	for field, message := range details {
		fields[field] = message
	}
	observability.FromContext(r.Context()).WithFields(fields).Error(validationFailedMessage)
	httputil.WriteValidationErrors(w, validationFailedMessage, details)
}

// decodeBody reads the JSON request body into dest. It writes 400 for a
// malformed body and 413 when the body exceeds the configured limit.
func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	err := httputil.ParseJSON(r, dest)
	if err == nil {
		return true
	}

	logger := observability.FromContext(r.Context())
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logger.WithField("limit", tooLarge.Limit).Warn("Request body too large")
		httputil.WriteErrorMessage(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
		return false
	}

	logger.WithError(err).Warn("Malformed request body")
	httputil.WriteError(w, http.StatusBadRequest, err)
	return false
}

// pageParams reads page (default 0) and size (default 10) from the query
func pageParams(w http.ResponseWriter, r *http.Request) (storage.Page, bool) {
	number, err := httputil.ParseQueryInt(r, "page", 0)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return storage.Page{}, false
	}
	size, err := httputil.ParseQueryInt(r, "size", storage.DefaultPageSize)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return storage.Page{}, false
	}

	if number < 0 {
		httputil.WriteBadRequest(w, "Page index must not be less than zero")
		return storage.Page{}, false
	}
	if size < 1 {
		httputil.WriteBadRequest(w, "Page size must not be less than one")
		return storage.Page{}, false
	}
	return storage.Page{Number: number, Size: size}, true
}
