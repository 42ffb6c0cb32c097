package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name        string
		body        []byte
		contentType string
		expected    string
	}{
		{
			name:        "empty body",
			body:        nil,
			contentType: "application/json; charset=utf-8",
			expected:    "",
		},
		{
			name:        "empty body with bogus charset",
			body:        []byte{},
			contentType: "text/plain; charset=bogus-1",
			expected:    "",
		},
		{
			name:        "no content type defaults to utf-8",
			body:        []byte(`{"title":"Amélie"}`),
			contentType: "",
			expected:    `{"title":"Amélie"}`,
		},
		{
			name:        "no charset parameter",
			body:        []byte("héllo"),
			contentType: "application/json",
			expected:    "héllo",
		},
		{
			name:        "explicit utf-8",
			body:        []byte("héllo"),
			contentType: "text/plain; charset=UTF-8",
			expected:    "héllo",
		},
		{
			name:        "latin-1",
			body:        []byte{'c', 'a', 'f', 0xe9},
			contentType: "text/plain; charset=ISO-8859-1",
			expected:    "café",
		},
		{
			name:        "quoted charset",
			body:        []byte{'c', 'a', 'f', 0xe9},
			contentType: `text/plain; charset="windows-1252"`,
			expected:    "café",
		},
		{
			name:        "unknown charset",
			body:        []byte("data"),
			contentType: "text/plain; charset=klingon",
			expected:    UnsupportedEncoding,
		},
		{
			name:        "malformed content type falls back to utf-8",
			body:        []byte("data"),
			contentType: "text/plain; charset",
			expected:    "data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeBody(tt.body, tt.contentType))
		})
	}
}
