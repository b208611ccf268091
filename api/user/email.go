// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

package user

import (
	"context"
	"net/http"

	"github.com/andrewkroh/go-github-api/api"
)

// EmailAddress is an address registered on the authenticated account.
type EmailAddress struct {
	Email      string `json:"email"`
	Primary    bool   `json:"primary"`
	Verified   bool   `json:"verified"`
	Visibility string `json:"visibility,omitempty"`
}

// Email is the email sub-resource of the authenticated user. Every
// operation requires authentication.
type Email struct {
	session *api.Session
}

// List returns the email addresses of the authenticated user.
func (e *Email) List(ctx context.Context) ([]EmailAddress, error) {
	if err := e.session.RequireAuth(ctx, "email.List"); err != nil {
		return nil, err
	}
	resp, err := e.session.Transport().Get(ctx, "/user/emails", nil)
	if err != nil {
		return nil, err
	}
	return api.Decode[[]EmailAddress](resp, http.StatusOK)
}

// Add registers addresses and returns the resulting entries.
func (e *Email) Add(ctx context.Context, emails ...string) ([]EmailAddress, error) {
	if err := e.session.RequireAuth(ctx, "email.Add"); err != nil {
		return nil, err
	}
	if len(emails) == 0 {
		return nil, api.RequireArg("emails", "")
	}
	resp, err := e.session.Transport().Post(ctx, "/user/emails", emails)
	if err != nil {
		return nil, err
	}
	return api.Decode[[]EmailAddress](resp, http.StatusCreated)
}

// Remove deletes addresses. It returns true on 204 No Content.
func (e *Email) Remove(ctx context.Context, emails ...string) (bool, error) {
	if err := e.session.RequireAuth(ctx, "email.Remove"); err != nil {
		return false, err
	}
	if len(emails) == 0 {
		return false, api.RequireArg("emails", "")
	}
	resp, err := e.session.Transport().Delete(ctx, "/user/emails", emails)
	if err != nil {
		return false, err
	}
	return api.NoContent(resp)
}
