// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

// Package gist is the client for the GitHub Gist API.
package gist

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/andrewkroh/go-github-api/api"
)

// Record is a gist as returned by the API.
type Record struct {
	ID          string          `json:"id"`
	URL         string          `json:"url"`
	HTMLURL     string          `json:"html_url"`
	Description string          `json:"description"`
	Public      bool            `json:"public"`
	Owner       *Owner          `json:"owner,omitempty"`
	Files       map[string]File `json:"files"`
	Comments    int             `json:"comments"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Owner is the account that owns a gist.
type Owner struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

// File is a file within a gist. Content is only populated when a single
// gist is fetched.
type File struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Language string `json:"language"`
	RawURL   string `json:"raw_url"`
	Size     int    `json:"size"`
	Content  string `json:"content,omitempty"`
}

// FileContent is the content of a file sent on create or update.
type FileContent struct {
	Content  string `json:"content,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// CreateRequest is the body of a gist creation.
type CreateRequest struct {
	Description string                 `json:"description,omitempty"`
	Public      bool                   `json:"public"`
	Files       map[string]FileContent `json:"files"`
}

// UpdateRequest is the body of a gist update. A nil entry in Files
// deletes that file.
type UpdateRequest struct {
	Description *string                 `json:"description,omitempty"`
	Files       map[string]*FileContent `json:"files,omitempty"`
}

// Gist is the gist resource.
type Gist struct {
	session *api.Session
}

// New returns a Gist resource bound to session.
func New(session *api.Session) *Gist {
	return &Gist{session: session}
}

// Session returns the credential session shared with sibling resources.
func (g *Gist) Session() *api.Session {
	return g.session
}

// List returns the public gists of username.
func (g *Gist) List(ctx context.Context, username string) ([]Record, error) {
	if err := api.RequireArg("username", username); err != nil {
		return nil, err
	}
	return g.list(ctx, "/users/"+url.PathEscape(username)+"/gists")
}

// ListAuthenticated returns the gists of the authenticated user.
func (g *Gist) ListAuthenticated(ctx context.Context) ([]Record, error) {
	if err := g.session.RequireAuth(ctx, "gist.ListAuthenticated"); err != nil {
		return nil, err
	}
	return g.list(ctx, "/gists")
}

// Public returns the most recent public gists.
func (g *Gist) Public(ctx context.Context) ([]Record, error) {
	return g.list(ctx, "/gists/public")
}

// Starred returns the gists starred by the authenticated user.
func (g *Gist) Starred(ctx context.Context) ([]Record, error) {
	if err := g.session.RequireAuth(ctx, "gist.Starred"); err != nil {
		return nil, err
	}
	return g.list(ctx, "/gists/starred")
}

func (g *Gist) list(ctx context.Context, path string) ([]Record, error) {
	resp, err := g.session.Transport().Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return api.Decode[[]Record](resp, http.StatusOK)
}

// Get returns a single gist, including file contents.
func (g *Gist) Get(ctx context.Context, id string) (*Record, error) {
	if err := api.RequireArg("id", id); err != nil {
		return nil, err
	}
	resp, err := g.session.Transport().Get(ctx, gistPath(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeRecord(resp, http.StatusOK)
}

// Create creates a gist owned by the authenticated user.
func (g *Gist) Create(ctx context.Context, req CreateRequest) (*Record, error) {
	if err := g.session.RequireAuth(ctx, "gist.Create"); err != nil {
		return nil, err
	}
	if len(req.Files) == 0 {
		return nil, api.RequireArg("files", "")
	}
	resp, err := g.session.Transport().Post(ctx, "/gists", req)
	if err != nil {
		return nil, err
	}
	return decodeRecord(resp, http.StatusCreated)
}

// Update edits the description or files of a gist.
func (g *Gist) Update(ctx context.Context, id string, req UpdateRequest) (*Record, error) {
	if err := g.session.RequireAuth(ctx, "gist.Update"); err != nil {
		return nil, err
	}
	if err := api.RequireArg("id", id); err != nil {
		return nil, err
	}
	resp, err := g.session.Transport().Patch(ctx, gistPath(id), req)
	if err != nil {
		return nil, err
	}
	return decodeRecord(resp, http.StatusOK)
}

// Delete deletes a gist.
func (g *Gist) Delete(ctx context.Context, id string) (bool, error) {
	if err := g.session.RequireAuth(ctx, "gist.Delete"); err != nil {
		return false, err
	}
	if err := api.RequireArg("id", id); err != nil {
		return false, err
	}
	resp, err := g.session.Transport().Delete(ctx, gistPath(id), nil)
	if err != nil {
		return false, err
	}
	return api.NoContent(resp)
}

// Star stars a gist for the authenticated user.
func (g *Gist) Star(ctx context.Context, id string) (bool, error) {
	if err := g.session.RequireAuth(ctx, "gist.Star"); err != nil {
		return false, err
	}
	if err := api.RequireArg("id", id); err != nil {
		return false, err
	}
	resp, err := g.session.Transport().Put(ctx, gistPath(id)+"/star", nil)
	if err != nil {
		return false, err
	}
	return api.NoContent(resp)
}

// Unstar removes the authenticated user's star from a gist.
func (g *Gist) Unstar(ctx context.Context, id string) (bool, error) {
	if err := g.session.RequireAuth(ctx, "gist.Unstar"); err != nil {
		return false, err
	}
	if err := api.RequireArg("id", id); err != nil {
		return false, err
	}
	resp, err := g.session.Transport().Delete(ctx, gistPath(id)+"/star", nil)
	if err != nil {
		return false, err
	}
	return api.NoContent(resp)
}

// IsStarred reports whether the authenticated user starred a gist.
func (g *Gist) IsStarred(ctx context.Context, id string) (bool, error) {
	if err := g.session.RequireAuth(ctx, "gist.IsStarred"); err != nil {
		return false, err
	}
	if err := api.RequireArg("id", id); err != nil {
		return false, err
	}
	resp, err := g.session.Transport().Get(ctx, gistPath(id)+"/star", nil)
	if err != nil {
		return false, err
	}
	return api.Exists(resp)
}

// Fork forks a gist into the authenticated user's account.
func (g *Gist) Fork(ctx context.Context, id string) (*Record, error) {
	if err := g.session.RequireAuth(ctx, "gist.Fork"); err != nil {
		return nil, err
	}
	if err := api.RequireArg("id", id); err != nil {
		return nil, err
	}
	resp, err := g.session.Transport().Post(ctx, gistPath(id)+"/forks", nil)
	if err != nil {
		return nil, err
	}
	return decodeRecord(resp, http.StatusCreated)
}

func gistPath(id string) string {
	return "/gists/" + url.PathEscape(id)
}

func decodeRecord(resp *api.Response, want int) (*Record, error) {
	r, err := api.Decode[Record](resp, want)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
