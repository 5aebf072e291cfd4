package workflow

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by Run wraps exactly one of these when the
// cause is classified; callers match with errors.Is.
var (
	ErrValidation        = errors.New("invalid input")
	ErrAttestationFetch  = errors.New("price attestation fetch failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrEstimation        = errors.New("gas estimation failed")
	ErrSubmission        = errors.New("transaction submission failed")
	ErrConfirmation      = errors.New("transaction confirmation failed")
)

// Failure records the state a run aborted in.
type Failure struct {
	Op    Operation
	State State
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failed while %s: %v", f.Op, f.State, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Invalid builds an ErrValidation with a formatted detail.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func kind(k error, err error) error {
	return fmt.Errorf("%w: %v", k, err)
}

// FailedState reports the state a run failed in, if err came from Run.
func FailedState(err error) (State, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.State, true
	}
	return Failed, false
}
