package auth

import (
	"errors"
	"fmt"
)

// ErrInvalidToken matches every *InvalidTokenError via errors.Is.
var ErrInvalidToken = errors.New("invalid token")

// Reason says why a token was rejected. Access decisions treat all reasons
// the same; the distinction exists for logs and metrics.
type Reason string

const (
	ReasonMalformed    Reason = "malformed"
	ReasonBadSignature Reason = "bad-signature"
	ReasonExpired      Reason = "expired"
)

// InvalidTokenError is returned by Codec.Verify.
type InvalidTokenError struct {
	Reason Reason
	Err    error
}

func (e *InvalidTokenError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid token: %s", e.Reason)
	}
	return fmt.Sprintf("invalid token: %s: %v", e.Reason, e.Err)
}

func (e *InvalidTokenError) Unwrap() error { return e.Err }

func (e *InvalidTokenError) Is(target error) bool { return target == ErrInvalidToken }

// TokenReason extracts the rejection reason from err, or "" if err is not an
// *InvalidTokenError.
func TokenReason(err error) Reason {
	var ite *InvalidTokenError
	if errors.As(err, &ite) {
		return ite.Reason
	}
	return ""
}
