package api

import (
	"context"
	"time"
)

type Scheme string

const (
	// SchemeL402 is the current name of the payment challenge scheme.
	SchemeL402 Scheme = "L402"
	// SchemeLSAT is the legacy alias still emitted by older servers.
	SchemeLSAT Scheme = "LSAT"
)

const (
	// HeaderAuthorization is the header that header-based challenges
	// expect the proof in unless they name another one.
	HeaderAuthorization = "authorization"
	// HeaderProof is the default header carrying the proof of payment.
	HeaderProof = "x-l402-proof"
	// MetadataMacaroon is the Challenge.Metadata key for the macaroon
	// sent alongside the invoice.
	MetadataMacaroon = "macaroon"
)

// Source identifies where in a 402 response a Challenge was found.
type Source int

const (
	SourceNone Source = iota
	SourceHeader
	SourceBody
)

func (s Source) String() string {
	switch s {
	case SourceHeader:
		return "header"
	case SourceBody:
		return "body"
	default:
		return "none"
	}
}

// Challenge is the normalized content of a 402 Payment Required response.
type Challenge struct {
	// Invoice is the payment request, typically a BOLT11 invoice.  It is
	// never validated.
	Invoice string `json:"invoice"`
	// ProofHeaderHint names the header the server expects the proof in.
	// An empty hint means the server did not ask for one.
	ProofHeaderHint string `json:"proofHeaderHint,omitempty"`
	// Metadata carries auxiliary values, such as a macaroon, that are
	// handed to the Payer untouched.
	Metadata map[string]any `json:"metadata,omitempty"`
	Source   Source         `json:"-"`
}

// Macaroon returns the macaroon carried by the challenge, if any.
func (c Challenge) Macaroon() (string, bool) {
	mac, ok := c.Metadata[MetadataMacaroon].(string)

	return mac, ok && mac != ""
}

// Payment is the outcome of paying a Challenge.
type Payment struct {
	// Proof is attached to the retried request.
	Proof  string
	PaidAt time.Time
}

// Payer represents types that can settle a Challenge on the client's
// behalf.
type Payer interface {
	// Pay settles the challenge's invoice and returns the proof that
	// should accompany the retried request.  Any error aborts the request
	// being retried.
	Pay(ctx context.Context, challenge Challenge) (*Payment, error)
}

// PayerFunc adapts an ordinary function to the Payer interface.
type PayerFunc func(ctx context.Context, challenge Challenge) (*Payment, error)

func (f PayerFunc) Pay(ctx context.Context, challenge Challenge) (*Payment, error) {
	return f(ctx, challenge)
}
