package challenge

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/selesy/l402-buyer/pkg/api"
)

const headerWWWAuthenticate = "WWW-Authenticate"

var (
	headerInvoiceKeys = []string{"invoice", "payreq", "payment_request", "paymentrequest", "pr", "bolt11", "bolt-11"}
	headerHintKeys    = []string{"proof_header", "proofheader", "proof-header", "header"}
	headerMetaKeys    = []string{api.MetadataMacaroon, "version", "realm"}

	schemes = []api.Scheme{api.SchemeL402, api.SchemeLSAT}

	// paramPattern finds key=value pairs wherever they are, whatever
	// separates them.
	paramPattern = regexp.MustCompile(`([A-Za-z0-9_\-]+)\s*=\s*(?:"((?:[^"\\]|\\.)*)"|([^\s,;"]+))`)
	unescape     = regexp.MustCompile(`\\(.)`)
)

func fromHeader(header http.Header) (api.Challenge, bool) {
	values := header.Values(headerWWWAuthenticate)
	if len(values) == 0 {
		return api.Challenge{}, false
	}

	for _, segment := range segments(strings.Join(values, ", ")) {
		scheme, rest := splitScheme(segment)
		if !isScheme(scheme) {
			continue
		}

		params := parseParams(rest)

		invoice, ok := first(params, headerInvoiceKeys)
		if !ok {
			continue
		}

		hint, ok := first(params, headerHintKeys)
		if !ok {
			hint = api.HeaderAuthorization
		}

		var meta map[string]any

		for _, key := range headerMetaKeys {
			if v, ok := params[key]; ok {
				if meta == nil {
					meta = map[string]any{}
				}

				meta[key] = v
			}
		}

		return api.Challenge{
			Invoice:         invoice,
			ProofHeaderHint: hint,
			Metadata:        meta,
			Source:          api.SourceHeader,
		}, true
	}

	return api.Challenge{}, false
}

// segments splits a (possibly comma-merged) header value into individual
// challenges.  A new segment starts only where a recognized scheme
// follows the start of the value or a comma.
func segments(value string) []string {
	var (
		out   []string
		start = 0
	)

	for i := 0; i < len(value); i++ {
		if value[i] != ',' {
			continue
		}

		j := i + 1
		for j < len(value) && isSpace(value[j]) {
			j++
		}

		if startsWithScheme(value[j:]) {
			out = append(out, value[start:i])
			start = j
		}
	}

	return append(out, value[start:])
}

func startsWithScheme(s string) bool {
	for _, scheme := range schemes {
		n := len(scheme)
		if len(s) < n || !strings.EqualFold(s[:n], string(scheme)) {
			continue
		}

		if len(s) == n || isSpace(s[n]) || s[n] == ',' {
			return true
		}
	}

	return false
}

// splitScheme separates the scheme token from its parameters.  Both
// "L402 k=v" and "L402, k=v" are accepted.
func splitScheme(segment string) (string, string) {
	segment = strings.TrimSpace(segment)

	end := strings.IndexFunc(segment, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
	if end < 0 {
		end = len(segment)
	}

	scheme := strings.TrimRight(segment[:end], ",;:.")

	return scheme, segment[end:]
}

func isScheme(token string) bool {
	for _, scheme := range schemes {
		if strings.EqualFold(token, string(scheme)) {
			return true
		}
	}

	return false
}

// parseParams collects every key=value pair in s.  Keys are lowercased
// and the first occurrence of a key wins.
func parseParams(s string) map[string]string {
	params := map[string]string{}

	for _, m := range paramPattern.FindAllStringSubmatchIndex(s, -1) {
		key := strings.ToLower(s[m[2]:m[3]])
		if _, ok := params[key]; ok {
			continue
		}

		var value string

		if m[4] >= 0 {
			value = unescape.ReplaceAllString(s[m[4]:m[5]], "$1")
		} else {
			value = s[m[6]:m[7]]
		}

		params[key] = value
	}

	return params
}

func first(params map[string]string, keys []string) (string, bool) {
	for _, key := range keys {
		if v, ok := params[key]; ok && present(v) {
			return v, true
		}
	}

	return "", false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
