package buyer

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/selesy/l402-buyer/internal/observability"
	"github.com/selesy/l402-buyer/pkg/api"
)

const defaultMaxRetries = 1

type config struct {
	client      *http.Client
	log         *slog.Logger
	proofHeader string
	maxRetries  int
}

// Option represents a means of altering the default configuration of the
// buyer's http.RoundTripper.
type Option func(*config) error

func newConfig(opts ...Option) (*config, error) {
	var errs error

	cfg := &config{
		client: &http.Client{
			Transport: http.DefaultTransport,
		},
		log:         slog.New(observability.NewNoopHandler()),
		proofHeader: api.HeaderProof,
		maxRetries:  defaultMaxRetries,
	}

	for _, opt := range opts {
		errs = errors.Join(errs, opt(cfg))
	}

	if errs != nil {
		return nil, errs
	}

	return cfg, nil
}

// WithClient supplies the http.Client that ClientForPayer copies.  The
// copy's transport is wrapped, the client itself is left untouched.
// NewTransport ignores it.  A nil client is rejected.
func WithClient(client *http.Client) Option {
	return func(c *config) error {
		if client == nil {
			return ErrNilClient
		}

		c.client = client

		return nil
	}
}

// WithLogger routes the Transport's logging to log, which defaults to
// discarding everything.  Each payment produces one INFO record and each
// step of a request (send, pay, retry, give up) a DEBUG record.  Proofs
// and macaroons are never logged.
func WithLogger(log *slog.Logger) Option {
	return func(c *config) error {
		c.log = observability.OrNoop(log)

		return nil
	}
}

// WithProofHeader sets the header that carries the proof of payment when
// the challenge doesn't name one.  The default is "X-L402-Proof".
func WithProofHeader(name string) Option {
	return func(c *config) error {
		name = strings.TrimSpace(name)
		if !httpguts.ValidHeaderFieldName(name) {
			return fmt.Errorf("%w: %q", ErrInvalidProofHeader, name)
		}

		c.proofHeader = name

		return nil
	}
}

// WithMaxRetries sets how many pay-and-retry cycles a single request may
// go through.  The default is one.  Negative values are treated as zero,
// which disables payment entirely.
func WithMaxRetries(n int) Option {
	return func(c *config) error {
		c.maxRetries = max(n, 0)

		return nil
	}
}
