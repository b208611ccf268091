// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for GitHub API operations.
var (
	// ErrAuthentication is returned when an operation that requires an
	// authenticated session is attempted without one. The transport is
	// never invoked when this error is returned.
	ErrAuthentication = errors.New("github: authentication required")

	// ErrNoCredentials is returned by Session.Login when no credentials
	// have been set, and when empty credentials are offered.
	ErrNoCredentials = errors.New("github: no credentials set")

	// ErrSessionActive is returned when credentials are replaced while
	// the session is logged in.
	ErrSessionActive = errors.New("github: session is logged in, logout first")

	ErrInvalidArgument = errors.New("github: invalid argument")
	ErrUnauthorized    = errors.New("github: unauthorized (invalid or revoked credentials)")
	ErrNotFound        = errors.New("github: not found")
	ErrRateLimited     = errors.New("github: API rate limit exceeded")
)

// APIError is returned when the API answers with a status code the
// operation does not expect.
type APIError struct {
	StatusCode       int
	Message          string
	DocumentationURL string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("github: unexpected status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match an APIError against ErrUnauthorized and
// ErrNotFound by status code.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// newAPIError builds an APIError from a response, using the message and
// documentation_url fields of the GitHub error body when present.
func newAPIError(resp *Response) *APIError {
	apiErr := &APIError{StatusCode: resp.Status}

	var body struct {
		Message          string `json:"message"`
		DocumentationURL string `json:"documentation_url"`
	}
	if len(resp.Data) > 0 && json.Unmarshal(resp.Data, &body) == nil {
		apiErr.Message = body.Message
		apiErr.DocumentationURL = body.DocumentationURL
	}
	return apiErr
}

func invalidArgument(name string) error {
	return fmt.Errorf("%w: %s must not be empty", ErrInvalidArgument, name)
}
