package client

import "errors"

var (
	ErrApplication      = errors.New("internal application error")
	ErrServerValidation = errors.New("server validation error")
	ErrExpiredOTP       = errors.New("expired otp")
	ErrUnauthorized     = errors.New("invalid credentials")
)

// getMostNestedError digs to the root cause of a wrapped transport error, the
// outer layers only repeat the url and method
func getMostNestedError(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}
