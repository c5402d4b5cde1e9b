package constants

// Upstream provider error codes (GitHub API, community members API).
const (
	ErrCodeInvalidAPIKey     = "INVALID_API_KEY"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeNotFound          = "RESOURCE_NOT_FOUND"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
	ErrCodeUpstreamError     = "UPSTREAM_ERROR"
)

var ProviderErrorMessages = map[string]string{
	ErrCodeInvalidAPIKey:     "The API token is invalid or has been revoked",
	ErrCodeRateLimited:       "Rate limit exceeded. Please try again later",
	ErrCodeNetworkError:      "Unable to reach the upstream API",
	ErrCodeNotFound:          "The requested resource does not exist",
	ErrCodeConflict:          "The resource already exists",
	ErrCodeInvalidDataFormat: "The request or response payload is malformed",
	ErrCodeUpstreamError:     "The upstream API returned an unexpected error",
}

// GetErrorMessage returns the human-readable message for a provider error code.
func GetErrorMessage(code string) string {
	if msg, ok := ProviderErrorMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}
