package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Lookup pipeline errors
	ErrPlayerNotFound    = fmt.Errorf("player not found")
	ErrResolution        = fmt.Errorf("player resolution failed")
	ErrAPIRequest        = fmt.Errorf("API request failed")
	ErrTransport         = fmt.Errorf("transport failure")
	ErrMalformedResponse = fmt.Errorf("malformed response")

	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
