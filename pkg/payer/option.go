package payer

import (
	"time"

	"github.com/selesy/l402-buyer/pkg/api"
)

type NowFunc func() time.Time

type Options struct {
	nowFunc     NowFunc
	scheme      api.Scheme
	proofHeader string
}

func NewOptions(opts ...Option) (*Options, error) {
	options := &Options{
		nowFunc:     time.Now,
		scheme:      api.SchemeL402,
		proofHeader: api.HeaderProof,
	}

	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	return options, nil
}

type Option func(*Options) error

func WithNowFunc(nowFunc NowFunc) Option {
	return func(o *Options) error {
		o.nowFunc = nowFunc

		return nil
	}
}

// WithScheme selects the scheme written in front of macaroon tokens.
// Servers still speaking LSAT need api.SchemeLSAT.
func WithScheme(scheme api.Scheme) Option {
	return func(o *Options) error {
		o.scheme = scheme

		return nil
	}
}

// WithProofHeader tells the payer which header the transport falls back
// to, so that it can tell whether the proof will land in Authorization.
// It should match the buyer's WithProofHeader option.
func WithProofHeader(name string) Option {
	return func(o *Options) error {
		o.proofHeader = name

		return nil
	}
}
