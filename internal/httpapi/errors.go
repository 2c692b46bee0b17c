package httpapi

import (
	"fmt"
	"net/http"
)

// validationError covers malformed identifiers, polylines, angles, or
// negative magnitudes. Rejected with 422.
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func newValidationError(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// configurationError covers an invalid combine_mode. Rejected with 422;
// it is a request-supplied value, same class as a validation failure.
type configurationError struct{ msg string }

func (e *configurationError) Error() string { return e.msg }

func newConfigurationError(err error) error {
	return &configurationError{msg: err.Error()}
}

// algorithmError covers any other failure raised by a dispatch algorithm.
// Rejected with 400 as a client error; state is left unmutated (the store
// is only written by /setup).
type algorithmError struct{ msg string }

func (e *algorithmError) Error() string { return e.msg }

func newAlgorithmError(err error) error {
	return &algorithmError{msg: err.Error()}
}

// statusFor maps a typed error to its HTTP status code. Unrecognized
// errors default to 500.
func statusFor(err error) int {
	switch err.(type) {
	case *validationError:
		return http.StatusUnprocessableEntity
	case *configurationError:
		return http.StatusUnprocessableEntity
	case *algorithmError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
