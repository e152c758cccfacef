package model

import "errors"

var (
	ErrValidation          = errors.New("validation error")           // 400, never reaches the network
	ErrCredentialsMismatch = errors.New("credentials mismatch")       // gateway offer/config problem, triggers cascade
	ErrGatewayRejected     = errors.New("gateway rejected")           // provider-specific, terminal
	ErrMalformedResponse   = errors.New("malformed gateway response") // HTTP success without a payment token
	ErrNetwork             = errors.New("network error")              // transport failure or timeout
	ErrSchemaMismatch      = errors.New("store schema mismatch")      // missing column, auto-healed up to two retries
	ErrStorePermission     = errors.New("store permission denied")    // 401/403 from the store, never retried
	ErrUnknown             = errors.New("unknown error")

	ErrSessionNotFound    = errors.New("checkout session not found")
	ErrWrongStep          = errors.New("operation not allowed at current step")
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrDemoUnavailable    = errors.New("demo mode not available")
	ErrCEPNotFound        = errors.New("postal code not found")
)

// ClassifiedError attaches a provider-facing message to one of the
// sentinel kinds above. errors.Is against the kind keeps working
// through Unwrap.
type ClassifiedError struct {
	Kind    error
	Message string
}

func Classified(kind error, message string) *ClassifiedError {
	return &ClassifiedError{Kind: kind, Message: message}
}

func (e *ClassifiedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *ClassifiedError) Unwrap() error { return e.Kind }

// UserMessage returns the literal provider message carried by err, or
// the fallback when err is not a ClassifiedError or carries none.
func UserMessage(err error, fallback string) string {
	var ce *ClassifiedError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
