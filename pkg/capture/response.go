package capture

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"sync"
)

// ErrFlushed is returned by Write once the recorded response has been sent
var ErrFlushed = errors.New("capture: response already flushed")

// ResponseRecorder holds a handler's status and body until FlushToClient.
// Headers go straight to the real writer's map, so handlers see and set the
// headers the client will receive.
type ResponseRecorder struct {
	mu          sync.Mutex
	w           http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
	flushed     bool
}

// NewResponseRecorder wraps w
func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{w: w, status: http.StatusOK}
}

// Header returns the real writer's header map
func (rr *ResponseRecorder) Header() http.Header {
	return rr.w.Header()
}

// WriteHeader records the first final status. Informational statuses other than
// 101 are passed through immediately, as net/http does.
func (rr *ResponseRecorder) WriteHeader(code int) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if rr.wroteHeader || rr.flushed {
		return
	}
	if code < 100 || code > 999 {
		return
	}
	if code >= 100 && code < 200 && code != http.StatusSwitchingProtocols {
		rr.w.WriteHeader(code)
		return
	}
	rr.status = code
	rr.wroteHeader = true
}

// Write buffers b. The first Write without WriteHeader implies 200.
func (rr *ResponseRecorder) Write(b []byte) (int, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if rr.flushed {
		return 0, ErrFlushed
	}
	if !rr.wroteHeader {
		rr.wroteHeader = true
	}
	if !bodyAllowed(rr.status) {
		return 0, http.ErrBodyNotAllowed
	}
	return rr.body.Write(b)
}

// Flush satisfies http.Flusher. Bytes are held until FlushToClient.
func (rr *ResponseRecorder) Flush() {}

// Status returns the recorded status, 200 when the handler never set one
func (rr *ResponseRecorder) Status() int {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.status
}

// Written reports whether the handler wrote a status or any body bytes
func (rr *ResponseRecorder) Written() bool {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.wroteHeader
}

// Bytes returns a copy of the buffered body. Never nil.
func (rr *ResponseRecorder) Bytes() []byte {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	out := make([]byte, rr.body.Len())
	copy(out, rr.body.Bytes())
	return out
}

// FlushToClient sends the recorded status and body to the real writer. Only the
// first call writes; later calls return nil.
func (rr *ResponseRecorder) FlushToClient() error {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if rr.flushed {
		return nil
	}
	rr.flushed = true

	header := rr.w.Header()
	if bodyAllowed(rr.status) && header.Get("Content-Length") == "" && header.Get("Transfer-Encoding") == "" {
		header.Set("Content-Length", strconv.Itoa(rr.body.Len()))
	}

	rr.w.WriteHeader(rr.status)
	if rr.body.Len() == 0 || !bodyAllowed(rr.status) {
		return nil
	}
	_, err := rr.w.Write(rr.body.Bytes())
	return err
}

// bodyAllowed mirrors the net/http rule: 1xx, 204 and 304 carry no body
func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
