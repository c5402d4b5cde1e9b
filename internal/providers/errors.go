package providers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Bernardstanislas/secretariat/internal/constants"
)

// ProviderError represents a provider-specific error
type ProviderError struct {
	Code       string
	StatusCode int
	Message    string
	Details    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsConflict reports whether err is an upstream conflict or unprocessable
// entity, i.e. the resource being created already exists.
func IsConflict(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == constants.ErrCodeConflict
}

// buildHTTPError creates appropriate error based on status code
func buildHTTPError(statusCode int, endpoint string, body string) error {
	pe := &ProviderError{StatusCode: statusCode, Details: body}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		pe.Code = constants.ErrCodeInvalidAPIKey
		pe.Message = fmt.Sprintf("Authentication failed for endpoint %s", endpoint)
	case http.StatusNotFound:
		pe.Code = constants.ErrCodeNotFound
		pe.Message = fmt.Sprintf("Resource not found: %s", endpoint)
	case http.StatusConflict, http.StatusUnprocessableEntity:
		pe.Code = constants.ErrCodeConflict
		pe.Message = fmt.Sprintf("Conflict on %s", endpoint)
	case http.StatusTooManyRequests:
		pe.Code = constants.ErrCodeRateLimited
		pe.Message = constants.GetErrorMessage(constants.ErrCodeRateLimited)
	case http.StatusBadRequest:
		pe.Code = constants.ErrCodeInvalidDataFormat
		pe.Message = fmt.Sprintf("Bad request to %s", endpoint)
	default:
		pe.Code = constants.ErrCodeUpstreamError
		pe.Message = fmt.Sprintf("HTTP %d from %s", statusCode, endpoint)
	}
	return pe
}
