package capture

import (
	"mime"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// UnsupportedEncoding replaces a body whose declared charset cannot be decoded
const UnsupportedEncoding = "Unsupported Encoding"

// DecodeBody renders captured bytes as text using the charset declared in
// contentType. Bodies without a charset are treated as UTF-8. It never fails:
// an unknown charset or undecodable input yields UnsupportedEncoding.
func DecodeBody(b []byte, contentType string) string {
	if len(b) == 0 {
		return ""
	}

	charset := charsetOf(contentType)
	if charset == "" {
		return string(b)
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return UnsupportedEncoding
	}
	if enc == unicode.UTF8 {
		return string(b)
	}

	decoded, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return UnsupportedEncoding
	}
	return string(decoded)
}

// charsetOf extracts the charset parameter, or "" when there is none or the
// media type does not parse
func charsetOf(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(params["charset"])
}
