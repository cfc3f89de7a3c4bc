package github

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the two failure classes GitHub signals through HTTP
// status codes. Callers match them with errors.Is.
var (
	// ErrRateLimited indicates the API rate limit was exhausted (HTTP 403).
	ErrRateLimited = errors.New("GitHub API rate limit exceeded, please try again later")

	// ErrUnauthorized indicates the token was rejected (HTTP 401).
	ErrUnauthorized = errors.New("GitHub API token was rejected")
)

// GraphQLError is a query-level failure reported inside a successful HTTP
// envelope. Only the first error of the response is surfaced.
type GraphQLError struct {
	Message string
}

func (e *GraphQLError) Error() string {
	return e.Message
}

// NetworkError covers transport-level failures and unrecognized HTTP
// statuses: DNS, timeouts, connection resets, malformed responses.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("GitHub API request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// classify maps a response shape into the error taxonomy. The HTTP status is
// checked first; a GraphQL error message only matters when the status itself
// is not recognized.
func classify(status int, graphQLMessage string) error {
	switch status {
	case http.StatusForbidden:
		return ErrRateLimited
	case http.StatusUnauthorized:
		return ErrUnauthorized
	}
	if graphQLMessage != "" {
		return &GraphQLError{Message: graphQLMessage}
	}
	return &NetworkError{Err: fmt.Errorf("unexpected response status %d", status)}
}
