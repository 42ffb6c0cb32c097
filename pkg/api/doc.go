// Package api implements the film catalog REST API.
//
// All routes live under /api/v1:
//
//	GET    /films?page=0&size=10
//	POST   /films
//	GET    /films/{id}
//	PUT    /films/{id}
//	DELETE /films/{id}
//	GET    /films/search/year/{year}
//	GET    /films/search/rating/{rating}
//	GET    /films/search/longer-than/{minutes}
//	GET    /films/search/title?keyword=&page=&size=
//	GET    /films/search/language/{languageName}
//	GET    /actors, POST /actors, GET|PUT|DELETE /actors/{id}
//	GET    /languages, GET /languages/{id}
//
// Errors are JSON objects with a "message". Missing resources answer 404 with
// "<Resource> not found with id: <id>", invalid bodies answer 400 with a
// message per field under "details", and anything else answers 500 with
// "An unexpected error occurred: <cause>". Every error is logged through the
// request's context logger.
//
// Server is a plain http.Handler; wrap it with middleware.RequestLogger to get
// the per-request log record.
package api
