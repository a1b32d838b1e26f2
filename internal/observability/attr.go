package observability

import (
	"log/slog"

	"github.com/selesy/l402-buyer/pkg/api"
)

const invoicePrefixLen = 24

// ChallengeAttr describes a challenge for logging.  The invoice is
// shortened and metadata values are left out, only whether a macaroon was
// present is recorded.
func ChallengeAttr(c api.Challenge) slog.Attr {
	_, hasMacaroon := c.Macaroon()

	return slog.Group("challenge",
		slog.String("source", c.Source.String()),
		slog.String("invoice", Truncate(c.Invoice, invoicePrefixLen)),
		slog.String("proof_header_hint", c.ProofHeaderHint),
		slog.Bool("macaroon", hasMacaroon),
	)
}

// Truncate shortens s to at most n bytes, marking the cut with "...".
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
