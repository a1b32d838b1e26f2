// Package payer provides ready-made api.Payer implementations.
package payer

import (
	"context"
	"net/http"
	"strings"

	"github.com/selesy/l402-buyer/pkg/api"
)

// PreimageFunc pays invoice and returns the payment's preimage, usually
// hex-encoded.  It is where a wallet or Lightning node is plugged in.
type PreimageFunc func(ctx context.Context, invoice string) (string, error)

var _ api.Payer = (*PreimagePayer)(nil)

// PreimagePayer pays challenges through a PreimageFunc and turns the
// preimage into the proof the server expects.
//
// When the proof is headed for the Authorization header and the challenge
// carried a macaroon, the proof is the token "L402 <macaroon>:<preimage>".
// Otherwise it is the bare preimage.
type PreimagePayer struct {
	*Options

	fn PreimageFunc
}

func NewPreimagePayer(fn PreimageFunc, opts ...Option) (*PreimagePayer, error) {
	if fn == nil {
		return nil, ErrNilPreimageFunc
	}

	options, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &PreimagePayer{
		Options: options,
		fn:      fn,
	}, nil
}

func (p *PreimagePayer) Pay(ctx context.Context, challenge api.Challenge) (*api.Payment, error) {
	preimage, err := p.fn(ctx, challenge.Invoice)
	if err != nil {
		return nil, FailedPayment(err)
	}

	preimage = strings.TrimSpace(preimage)
	if preimage == "" {
		return nil, FailedPayment(ErrEmptyPreimage)
	}

	return &api.Payment{
		Proof:  p.proof(challenge, preimage),
		PaidAt: p.nowFunc(),
	}, nil
}

func (p *PreimagePayer) proof(challenge api.Challenge, preimage string) string {
	header := challenge.ProofHeaderHint
	if header == "" {
		header = p.proofHeader
	}

	mac, ok := challenge.Macaroon()
	if !ok || http.CanonicalHeaderKey(header) != "Authorization" {
		return preimage
	}

	return Token(p.scheme, mac, preimage)
}

// Token formats the Authorization value that redeems a paid challenge.
func Token(scheme api.Scheme, macaroon, preimage string) string {
	return string(scheme) + " " + macaroon + ":" + preimage
}
