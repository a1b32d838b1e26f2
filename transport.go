package buyer

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"golang.org/x/net/http/httpguts"

	"github.com/selesy/l402-buyer/internal/challenge"
	"github.com/selesy/l402-buyer/internal/observability"
	"github.com/selesy/l402-buyer/pkg/api"
)

var _ http.RoundTripper = (*Transport)(nil)

var errNoPayment = errors.New("payer returned no payment")

// Transport is an http.RoundTripper that answers L402 challenges by paying
// the invoice with its api.Payer and replaying the request with the proof
// of payment attached.
type Transport struct {
	config

	next  http.RoundTripper
	payer api.Payer
}

// NewTransport wraps next so that 402 Payment Required responses are paid
// with payer and retried.  If next is nil, http.DefaultTransport is used.
func NewTransport(next http.RoundTripper, payer api.Payer, opts ...Option) (*Transport, error) {
	if isNil(payer) {
		return nil, ErrMissingPayer
	}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	if next == nil {
		next = http.DefaultTransport
	}

	return &Transport{
		config: *cfg,

		next:  next,
		payer: payer,
	}, nil
}

// RoundTrip sends req and, while the response is a 402 carrying a
// challenge and retries remain, pays and sends it again.  Only headers
// differ between attempts and req itself is never modified.
//
// Responses that aren't retried are returned as they are, including a 402
// whose challenge couldn't be parsed or that arrived after the last retry.
// Errors from the underlying transport are returned unchanged, errors from
// the payer are wrapped in ErrPaymentFailed.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Body can only be read one time ... since we make several round-trips
	// if a payment is required, we have to duplicate the body.  So we
	// read the bytes and will create new readers for each call.
	body, err := readRequestBody(req)
	if err != nil {
		return nil, err
	}

	header := req.Header.Clone()
	if header == nil {
		header = http.Header{}
	}

	log := t.log.With(slog.String("method", req.Method), slog.String("url", req.URL.String()))

	for attempt := 0; ; attempt++ {
		log.Debug("Sending request", slog.String("state", "awaiting_response"), slog.Int("attempt", attempt))

		resp, err := t.next.RoundTrip(attemptRequest(req, header, body))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusPaymentRequired {
			log.Debug("Request complete", slog.String("state", "done"), slog.Int("status", resp.StatusCode))

			return resp, nil
		}

		if attempt >= t.maxRetries {
			log.Debug("Retries exhausted", slog.String("state", "done"), slog.Int("attempt", attempt))

			return resp, nil
		}

		c, ok := t.challenge(log, resp)
		if !ok {
			log.Debug("No challenge found in 402 response", slog.String("state", "done"))

			return resp, nil
		}

		log.Debug("Paying challenge", slog.String("state", "paying"), observability.ChallengeAttr(c))

		payment, err := t.payer.Pay(req.Context(), c)
		if err == nil && payment == nil {
			err = errNoPayment
		}

		if err != nil {
			_ = resp.Body.Close()

			return nil, paymentFailed(err)
		}

		name := c.ProofHeaderHint
		if !httpguts.ValidHeaderFieldName(name) {
			if name != "" {
				log.Debug("Ignoring invalid proof header hint", slog.String("hint", name))
			}

			name = t.proofHeader
		}

		header = header.Clone()
		header.Set(name, payment.Proof)

		if err := resp.Body.Close(); err != nil {
			log.Debug("Failed to close 402 response body", slog.String("error", err.Error()))
		}

		log.Info("Paid L402 challenge",
			slog.String("source", c.Source.String()),
			slog.String("header", name),
		)
		log.Debug("Retrying with proof", slog.String("state", "retrying"), slog.Int("attempt", attempt+1))
	}
}

// challenge reads the 402 body and parses it.  A body that can't be read
// is treated as empty.  The body is replaced with an in-memory copy so
// that the response can still be handed back to the caller.
func (t *Transport) challenge(log *slog.Logger, resp *http.Response) (api.Challenge, bool) {
	var data []byte

	if resp.Body != nil {
		var err error

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			log.Debug("Failed to read 402 response body", slog.String("error", err.Error()))

			data = nil
		}

		_ = resp.Body.Close()
	}

	resp.Body = io.NopCloser(bytes.NewReader(data))

	log.Debug("Payment request body", slog.Int("length", len(data)))

	return challenge.Parse(resp.Header, resp.StatusCode, data)
}

// isNil catches typed nils, such as a nil *PreimagePayer, as well as a
// nil interface.
func isNil(payer api.Payer) bool {
	if payer == nil {
		return true
	}

	v := reflect.ValueOf(payer)

	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

func readRequestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}

	defer req.Body.Close()

	return io.ReadAll(req.Body)
}

// attemptRequest returns a copy of req carrying its own header set and a
// fresh reader over the original body.
func attemptRequest(req *http.Request, header http.Header, body []byte) *http.Request {
	out := req.Clone(req.Context())
	out.Header = header.Clone()

	if body != nil {
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	return out
}
