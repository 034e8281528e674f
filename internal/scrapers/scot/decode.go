package scot

import (
	"bytes"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// decodeBody returns a reader yielding the body as UTF-8, the source encoding is
// taken from the Content-Type header, a BOM or a <meta> charset declaration and
// defaults to windows-1252 when none of those are conclusive.
func decodeBody(body []byte, contentType string) (io.Reader, string) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)
	return transform.NewReader(bytes.NewReader(body), encoding.NewDecoder()), name
}
