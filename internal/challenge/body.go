package challenge

import (
	"encoding/json"
	"strings"

	"github.com/selesy/l402-buyer/pkg/api"
)

// rule is an ordered search: every path is tried in turn and, within the
// object found there, every key in turn.
type rule struct {
	paths []string
	keys  []string
}

var (
	invoiceRule = rule{
		paths: []string{"", "l402", "challenge", "data", "details", "result", "payment", "error", "error.l402", "error.data", "data.l402", "data.challenge"},
		keys:  []string{"invoice", "payreq", "payment_request", "paymentRequest", "paymentrequest", "pr", "bolt11", "bolt_11", "bolt-11"},
	}

	hintRule = rule{
		paths: []string{"", "l402", "challenge", "data", "details", "result", "error", "error.l402", "data.l402"},
		keys:  []string{"proofHeader", "proof_header", "proofheader", "proof-header", "header"},
	}

	metaPaths = []string{"meta", "l402.meta"}
)

func fromBody(body []byte) (api.Challenge, bool) {
	var root map[string]any
	if err := json.Unmarshal(body, &root); err != nil || root == nil {
		return api.Challenge{}, false
	}

	invoice, holder, ok := lookup(root, invoiceRule)
	if !ok {
		return api.Challenge{}, false
	}

	hint, _, _ := lookup(root, hintRule)

	return api.Challenge{
		Invoice:         invoice,
		ProofHeaderHint: hint,
		Metadata:        metadata(root, holder),
		Source:          api.SourceBody,
	}, true
}

// lookup returns the first non-empty string found by r along with the
// object it was found in.
func lookup(root map[string]any, r rule) (string, map[string]any, bool) {
	for _, path := range r.paths {
		obj, ok := resolve(root, path)
		if !ok {
			continue
		}

		for _, key := range r.keys {
			if v, ok := obj[key].(string); ok && present(v) {
				return v, obj, true
			}
		}
	}

	return "", nil, false
}

// resolve walks a dot-separated path of nested objects.  The empty path
// is the root itself.
func resolve(root map[string]any, path string) (map[string]any, bool) {
	if path == "" {
		return root, true
	}

	obj := root

	for _, name := range strings.Split(path, ".") {
		next, ok := obj[name].(map[string]any)
		if !ok {
			return nil, false
		}

		obj = next
	}

	return obj, true
}

func metadata(root, holder map[string]any) map[string]any {
	var meta map[string]any

	for _, path := range metaPaths {
		if obj, ok := resolve(root, path); ok {
			meta = make(map[string]any, len(obj)+1)
			for k, v := range obj {
				meta[k] = v
			}

			break
		}
	}

	if mac, ok := holder[api.MetadataMacaroon].(string); ok && present(mac) {
		if _, exists := meta[api.MetadataMacaroon]; !exists {
			if meta == nil {
				meta = map[string]any{}
			}

			meta[api.MetadataMacaroon] = mac
		}
	}

	if len(meta) == 0 {
		return nil
	}

	return meta
}
