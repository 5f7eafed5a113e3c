package github

import "fmt"

// APIError represents an error response from the GitHub API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github API error (status %d): %s", e.StatusCode, e.Message)
}

// IsConflict reports whether the error is a stale-sha rejection (409/422)
func (e *APIError) IsConflict() bool {
	return e.StatusCode == 409 || e.StatusCode == 422
}
