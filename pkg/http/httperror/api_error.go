package httperror

import (
	"fmt"
	"net/http"
)

// When a provider API call fails, we may want to distinguish among
// the causes by status code. This type is the base error when we get
// a non-"HTTP 20x" response, retrievable with errors.Cause(err).
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (err *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", err.Status, err.Body)
}

// Does this error mean the API service is unavailable?
func (err *APIError) IsUnavailable() bool {
	switch err.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Does the repository (or user) asked for not exist?
func (err *APIError) IsMissing() bool {
	return err.StatusCode == http.StatusNotFound
}

func (err *APIError) IsRateLimited() bool {
	return err.StatusCode == http.StatusTooManyRequests
}
