package consultdesk

import "github.com/kailas-cloud/consultdesk/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation        = domain.ErrValidation
	ErrNotFound          = domain.ErrNotFound
	ErrTransport         = domain.ErrTransport
	ErrServer            = domain.ErrServer
	ErrNetwork           = domain.ErrNetwork
	ErrInvalidTransition = domain.ErrInvalidTransition
	ErrStaleResponse     = domain.ErrStaleResponse
)

// TransportError is a failed remote call; Message is the service's detail verbatim.
// Use errors.As() to extract it.
type TransportError = domain.TransportError

// ValidationError carries per-field messages for input rejected before dispatch.
type ValidationError = domain.ValidationError
