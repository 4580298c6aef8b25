package courier

import (
	"fmt"

	"github.com/dokanify/backend/internal/domain/shared"
)

// ErrorKind classifies a provider failure for callers
type ErrorKind string

const (
	// KindAuthenticationFailed means the provider rejected our credentials
	KindAuthenticationFailed ErrorKind = "AUTHENTICATION_FAILED"
	// KindProtocolError means the provider broke its API contract, or the
	// call timed out before a usable response arrived
	KindProtocolError ErrorKind = "PROTOCOL_ERROR"
	// KindProviderRejected means the provider understood and declined the request
	KindProviderRejected ErrorKind = "PROVIDER_REJECTED"
	// KindNotImplemented means the provider integration is not available yet
	KindNotImplemented ErrorKind = "NOT_IMPLEMENTED"
	// KindNotConfigured means the provider's credentials are missing
	KindNotConfigured ErrorKind = "NOT_CONFIGURED"
)

// Error is the uniform provider failure. It wraps whatever the provider sent
// into a stable shape so handlers can map it without knowing the provider.
type Error struct {
	Courier Code
	Kind    ErrorKind
	// HTTPStatus is the provider's HTTP status, or 0 when no response arrived
	HTTPStatus int
	Message    string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %s", e.Courier, e.Kind, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Courier, e.Kind, e.Message)
}

// NewError creates a provider failure
func NewError(courier Code, kind ErrorKind, httpStatus int, message string) *Error {
	return &Error{
		Courier:    courier,
		Kind:       kind,
		HTTPStatus: httpStatus,
		Message:    message,
	}
}

// Sentinel errors for caller mistakes around provider selection and routing
var (
	// ErrUnknownCourier signals a courier code outside the known set
	ErrUnknownCourier = shared.NewDomainError("UNKNOWN_COURIER", "Unknown courier")
	// ErrMissingAreaInfo signals a provider call that required locality
	// identifiers the caller did not supply
	ErrMissingAreaInfo = shared.NewDomainError("MISSING_AREA_INFO", "Delivery area information is required for this courier")
)
