// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

// Package api provides the shared plumbing for the GitHub resource
// clients: the Transport contract, the credential Session that gates
// authenticated operations, and the mapping of responses to results.
package api

import (
	"context"
	"encoding/json"
	"net/url"
)

// Response is what a Transport returns for every call. Data holds the raw
// JSON body, which is empty for 204 No Content.
type Response struct {
	Status int
	Data   json.RawMessage
}

// Credentials identify the caller to the GitHub API. Either Token or the
// Username/Password pair is set.
type Credentials struct {
	Username string
	Password string
	Token    string
}

// IsToken reports whether the credentials hold an OAuth token.
func (c Credentials) IsToken() bool {
	return c.Token != ""
}

// Transport performs HTTP verbs against the GitHub API.
//
// A Transport returns a Response for every status code the server answers
// with; only failures to perform the exchange are returned as errors.
type Transport interface {
	Get(ctx context.Context, path string, params url.Values) (*Response, error)
	Put(ctx context.Context, path string, body any) (*Response, error)
	Patch(ctx context.Context, path string, body any) (*Response, error)
	Delete(ctx context.Context, path string, body any) (*Response, error)
	Post(ctx context.Context, path string, body any) (*Response, error)

	// SetCredentials makes subsequent requests authenticate with c.
	SetCredentials(c Credentials)

	// ClearCredentials makes subsequent requests anonymous.
	ClearCredentials()
}
