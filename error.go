package buyer

import (
	"errors"
	"fmt"
)

// ErrMissingPayer is returned when a Transport is constructed without an
// api.Payer.
var ErrMissingPayer = errors.New("a payer is required")

// ErrInvalidProofHeader is returned by WithProofHeader when the header
// name is empty or not a valid header field name.
var ErrInvalidProofHeader = errors.New("proof header name must not be empty")

// ErrNilClient is returned by WithClient when the client is nil.
var ErrNilClient = errors.New("http client must not be nil")

// ErrPaymentFailed wraps any error returned by the api.Payer.  The
// payer's own error remains reachable with errors.Is and errors.As.
var ErrPaymentFailed = errors.New("payment failed")

func paymentFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrPaymentFailed, err)
}
