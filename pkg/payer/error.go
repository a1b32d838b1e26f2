package payer

import (
	"errors"
	"fmt"
)

var ErrPaymentFailed = errors.New("failed to pay invoice")

// ErrEmptyPreimage is returned when a PreimageFunc succeeds without
// producing a preimage.
var ErrEmptyPreimage = errors.New("preimage is empty")

var ErrNilPreimageFunc = errors.New("preimage function is required")

func FailedPayment(err error) error {
	return fmt.Errorf("%w: %w", ErrPaymentFailed, err)
}
