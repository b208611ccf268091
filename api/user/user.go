// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

// Package user is the client for the GitHub Users API and the
// sub-resources that hang off a user: emails, keys and repositories.
package user

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/andrewkroh/go-github-api/api"
	"github.com/andrewkroh/go-github-api/api/gist"
)

// Record is a user profile. Follower and following listings return the
// same type with only the summary fields populated.
type Record struct {
	Login       string    `json:"login"`
	ID          int64     `json:"id"`
	GravatarURL string    `json:"gravatar_url,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	URL         string    `json:"url"`
	HTMLURL     string    `json:"html_url,omitempty"`
	Name        string    `json:"name,omitempty"`
	Company     string    `json:"company,omitempty"`
	Blog        string    `json:"blog,omitempty"`
	Location    string    `json:"location,omitempty"`
	Email       string    `json:"email,omitempty"`
	Hireable    bool      `json:"hireable"`
	Bio         string    `json:"bio,omitempty"`
	PublicRepos int       `json:"public_repos"`
	PublicGists int       `json:"public_gists"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	Type        string    `json:"type,omitempty"`
}

// UpdateRequest holds the profile fields to change. Nil fields are left
// untouched.
type UpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Blog     *string `json:"blog,omitempty"`
	Company  *string `json:"company,omitempty"`
	Location *string `json:"location,omitempty"`
	Hireable *bool   `json:"hireable,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// User is the user resource.
type User struct {
	session *api.Session
}

// New returns a User resource bound to session.
func New(session *api.Session) *User {
	return &User{session: session}
}

// Session returns the credential session shared with sibling resources.
func (u *User) Session() *api.Session {
	return u.session
}

// Get returns the public profile of username. No authentication is
// required.
func (u *User) Get(ctx context.Context, username string) (*Record, error) {
	if err := api.RequireArg("username", username); err != nil {
		return nil, err
	}
	return u.getRecord(ctx, userPath(username))
}

// GetAuthenticated returns the profile of the authenticated user.
func (u *User) GetAuthenticated(ctx context.Context) (*Record, error) {
	if err := u.session.RequireAuth(ctx, "user.GetAuthenticated"); err != nil {
		return nil, err
	}
	return u.getRecord(ctx, "/user")
}

// Update changes the profile of the authenticated user and returns the
// updated record.
func (u *User) Update(ctx context.Context, changes UpdateRequest) (*Record, error) {
	if err := u.session.RequireAuth(ctx, "user.Update"); err != nil {
		return nil, err
	}
	resp, err := u.session.Transport().Patch(ctx, "/user", changes)
	if err != nil {
		return nil, err
	}
	r, err := api.Decode[Record](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Followers lists the followers of username.
func (u *User) Followers(ctx context.Context, username string) ([]Record, error) {
	if err := api.RequireArg("username", username); err != nil {
		return nil, err
	}
	return u.listRecords(ctx, userPath(username)+"/followers")
}

// AuthenticatedFollowers lists the followers of the authenticated user.
func (u *User) AuthenticatedFollowers(ctx context.Context) ([]Record, error) {
	if err := u.session.RequireAuth(ctx, "user.AuthenticatedFollowers"); err != nil {
		return nil, err
	}
	return u.listRecords(ctx, "/user/followers")
}

// Following lists the users that username follows.
func (u *User) Following(ctx context.Context, username string) ([]Record, error) {
	if err := api.RequireArg("username", username); err != nil {
		return nil, err
	}
	return u.listRecords(ctx, userPath(username)+"/following")
}

// AuthenticatedFollowing lists the users the authenticated user follows.
func (u *User) AuthenticatedFollowing(ctx context.Context) ([]Record, error) {
	if err := u.session.RequireAuth(ctx, "user.AuthenticatedFollowing"); err != nil {
		return nil, err
	}
	return u.listRecords(ctx, "/user/following")
}

// Follow makes the authenticated user follow username. It returns true
// when the API answers 204 No Content.
func (u *User) Follow(ctx context.Context, username string) (bool, error) {
	if err := u.session.RequireAuth(ctx, "user.Follow"); err != nil {
		return false, err
	}
	if err := api.RequireArg("username", username); err != nil {
		return false, err
	}
	resp, err := u.session.Transport().Put(ctx, followingPath(username), nil)
	if err != nil {
		return false, err
	}
	return api.NoContent(resp)
}

// Unfollow makes the authenticated user stop following username.
func (u *User) Unfollow(ctx context.Context, username string) (bool, error) {
	if err := u.session.RequireAuth(ctx, "user.Unfollow"); err != nil {
		return false, err
	}
	if err := api.RequireArg("username", username); err != nil {
		return false, err
	}
	resp, err := u.session.Transport().Delete(ctx, followingPath(username), nil)
	if err != nil {
		return false, err
	}
	return api.NoContent(resp)
}

// IsFollowing reports whether the authenticated user follows username.
// 204 means yes, 404 means no.
func (u *User) IsFollowing(ctx context.Context, username string) (bool, error) {
	if err := u.session.RequireAuth(ctx, "user.IsFollowing"); err != nil {
		return false, err
	}
	if err := api.RequireArg("username", username); err != nil {
		return false, err
	}
	resp, err := u.session.Transport().Get(ctx, followingPath(username), nil)
	if err != nil {
		return false, err
	}
	return api.Exists(resp)
}

// Emails returns the email sub-resource sharing this user's session.
func (u *User) Emails() *Email {
	return &Email{session: u.session}
}

// Keys returns the public key sub-resource sharing this user's session.
func (u *User) Keys() *Key {
	return &Key{session: u.session}
}

// Repos returns the repository sub-resource sharing this user's session.
func (u *User) Repos() *Repo {
	return &Repo{session: u.session}
}

// Gists returns the gist resource sharing this user's session.
func (u *User) Gists() *gist.Gist {
	return gist.New(u.session)
}

func (u *User) getRecord(ctx context.Context, path string) (*Record, error) {
	resp, err := u.session.Transport().Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	r, err := api.Decode[Record](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (u *User) listRecords(ctx context.Context, path string) ([]Record, error) {
	resp, err := u.session.Transport().Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return api.Decode[[]Record](resp, http.StatusOK)
}

func userPath(username string) string {
	return "/users/" + url.PathEscape(username)
}

func followingPath(username string) string {
	return "/user/following/" + url.PathEscape(username)
}
