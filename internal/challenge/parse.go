// Package challenge extracts payment challenges from HTTP 402 responses.
//
// Servers in the wild disagree on where the invoice goes and what it is
// called, so the parser tries a fixed list of shapes in priority order
// and takes the first that yields an invoice.  The order is part of the
// contract and must not be rearranged.
package challenge

import (
	"net/http"
	"strings"

	"github.com/selesy/l402-buyer/pkg/api"
)

// Parse returns the Challenge carried by a response's headers or body.
//
// A WWW-Authenticate challenge takes precedence over a JSON body.  The
// boolean result is false when neither yields an invoice, which is not an
// error.  The status code is accepted for symmetry with the response and
// does not change the result.
func Parse(header http.Header, _ int, body []byte) (api.Challenge, bool) {
	if c, ok := fromHeader(header); ok {
		return c, true
	}

	return fromBody(body)
}

// present reports whether v has anything left after trimming.  Values
// themselves are returned untrimmed.
func present(v string) bool {
	return strings.TrimSpace(v) != ""
}
