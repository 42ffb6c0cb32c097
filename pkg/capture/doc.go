// Package capture records HTTP request and response bodies so they can be logged
// after the handler has finished, without changing what the handler or the client sees.
//
// # Request bodies
//
// RequestBody replaces r.Body. Reads pass through unchanged; Bytes returns the
// whole payload even if the handler stopped reading early. Capture stops at
// the limit and the rest of the body is left unread:
//
//	body := capture.NewRequestBody(r.Body, 1<<20)
//	r.Body = body
//	next.ServeHTTP(w, r)
//	payload := body.Bytes()
//
// # Responses
//
// ResponseRecorder buffers the status and body. Nothing reaches the client until
// FlushToClient, which must be called exactly once per request:
//
//	rec := capture.NewResponseRecorder(w)
//	next.ServeHTTP(rec, r)
//	logged := rec.Bytes()
//	_ = rec.FlushToClient()
//
// Streaming handlers are not supported: Flush is a no-op.
//
// # Text rendering
//
// DecodeBody turns captured bytes into a string using the Content-Type charset.
// Unknown charsets render as UnsupportedEncoding instead of failing.
package capture
