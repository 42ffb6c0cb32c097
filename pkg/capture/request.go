package capture

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"sync"
)

// RequestBody tees an inbound body into a buffer while the handler reads it.
// At most limit bytes are kept; the handler still sees every byte it reads.
type RequestBody struct {
	mu        sync.Mutex
	src       io.ReadCloser
	buf       bytes.Buffer
	limit     int64
	eof       bool
	closed    bool
	truncated bool
}

// NewRequestBody wraps rc, keeping at most limit bytes. A limit <= 0 keeps
// everything. A nil rc behaves as an empty body.
func NewRequestBody(rc io.ReadCloser, limit int64) *RequestBody {
	if rc == nil || rc == http.NoBody {
		return &RequestBody{eof: true, limit: limit}
	}
	return &RequestBody{src: rc, limit: limit}
}

// Read forwards bytes from the source unchanged and records them
func (b *RequestBody) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.eof {
		return 0, io.EOF
	}
	if b.closed {
		return 0, http.ErrBodyReadAfterClose
	}

	n, err := b.src.Read(p)
	b.record(p[:n])
	if errors.Is(err, io.EOF) {
		b.eof = true
	}
	return n, err
}

// Close drains whatever the handler left unread, then closes the source.
// Only the first call reaches the source.
func (b *RequestBody) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || b.src == nil {
		b.closed = true
		return nil
	}
	b.drainLocked()
	b.closed = true
	return b.src.Close()
}

// Bytes returns the complete body, reading any remainder the handler skipped.
// The result is never nil.
func (b *RequestBody) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.drainLocked()
	}
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	return out
}

// Truncated reports whether the body was longer than the capture limit
func (b *RequestBody) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}

// Len returns the number of bytes captured so far
func (b *RequestBody) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func (b *RequestBody) record(p []byte) {
	if b.limit <= 0 {
		b.buf.Write(p)
		return
	}
	room := b.limit - int64(b.buf.Len())
	if int64(len(p)) > room {
		if room > 0 {
			b.buf.Write(p[:room])
		}
		b.truncated = true
		return
	}
	b.buf.Write(p)
}

// drainLocked reads what the handler left unread, stopping one byte past the
// limit so an oversized body is never pulled into memory.
func (b *RequestBody) drainLocked() {
	if b.eof || b.src == nil {
		return
	}
	if b.limit <= 0 {
		// A read error ends the capture; whatever arrived is kept.
		_, _ = io.Copy(&b.buf, b.src)
		b.eof = true
		return
	}
	if b.truncated {
		return
	}

	room := b.limit - int64(b.buf.Len())
	rest, _ := io.ReadAll(io.LimitReader(b.src, room+1))
	b.record(rest)
	if !b.truncated {
		b.eof = true
	}
}
