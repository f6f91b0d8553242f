package apiclient

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cloo-solutions/feedback/internal/domain"
)

// NetworkErrorMessage is shown whenever no HTTP response was received.
const NetworkErrorMessage = "Unable to connect to the server. Please check that the feedback API is running and reachable."

// StatusNoResponse marks an APIError raised before any HTTP response arrived.
// It is never a real HTTP status code.
const StatusNoResponse = 0

// ErrorKind tags the three ways a request can fail.
type ErrorKind int

const (
	// KindTransport: no HTTP response was received.
	KindTransport ErrorKind = iota
	// KindValidation: the server rejected specific fields.
	KindValidation
	// KindHTTP: any other non-success status.
	KindHTTP
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindHTTP:
		return "http"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// APIError is the single error shape returned by the transport for failed requests.
type APIError struct {
	Status      int
	FieldErrors []domain.FieldError
	Message     string
	Err         error
}

func newTransportError(err error) *APIError {
	return &APIError{Status: StatusNoResponse, Message: NetworkErrorMessage, Err: err}
}

func (e *APIError) Error() string {
	if e.Kind() == KindValidation {
		parts := make([]string, 0, len(e.FieldErrors))
		for _, f := range e.FieldErrors {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return fmt.Sprintf("API error (%d): validation failed: %s", e.Status, strings.Join(parts, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("API error (%d): %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Kind classifies the failure. Field errors take precedence over the status code.
func (e *APIError) Kind() ErrorKind {
	switch {
	case e.Status == StatusNoResponse:
		return KindTransport
	case len(e.FieldErrors) > 0:
		return KindValidation
	default:
		return KindHTTP
	}
}

// DisplayMessage is the single-line message a view shows for non-field failures.
func (e *APIError) DisplayMessage() string {
	if e.Kind() == KindTransport {
		return NetworkErrorMessage
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Error: %d", e.Status)
}

// AsAPIError extracts an *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
