package apitest

import (
	"context"
	"sync"

	"github.com/selesy/l402-buyer/pkg/api"
)

var _ api.Payer = (*RecordingPayer)(nil)

// RecordingPayer is an api.Payer that remembers every challenge it was
// given.  It answers with Proof, or fails with Err when that is set.
type RecordingPayer struct {
	Proof string
	Err   error

	mu         sync.Mutex
	challenges []api.Challenge
}

func NewRecordingPayer(proof string) *RecordingPayer {
	return &RecordingPayer{Proof: proof}
}

func (p *RecordingPayer) Pay(_ context.Context, challenge api.Challenge) (*api.Payment, error) {
	p.mu.Lock()
	p.challenges = append(p.challenges, challenge)
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}

	return &api.Payment{Proof: p.Proof}, nil
}

// Challenges returns the challenges paid so far, in order.
func (p *RecordingPayer) Challenges() []api.Challenge {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]api.Challenge(nil), p.challenges...)
}
