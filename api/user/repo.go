// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

package user

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/andrewkroh/go-github-api/api"
)

// Repository is a repository summary.
type Repository struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Owner         *Record   `json:"owner,omitempty"`
	Private       bool      `json:"private"`
	Fork          bool      `json:"fork"`
	Description   string    `json:"description,omitempty"`
	HTMLURL       string    `json:"html_url"`
	CloneURL      string    `json:"clone_url,omitempty"`
	Homepage      string    `json:"homepage,omitempty"`
	Language      string    `json:"language,omitempty"`
	DefaultBranch string    `json:"default_branch,omitempty"`
	Stargazers    int       `json:"stargazers_count"`
	Watchers      int       `json:"watchers_count"`
	Forks         int       `json:"forks_count"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
	PushedAt      time.Time `json:"pushed_at,omitzero"`
}

// RepoListOptions filters and orders repository listings. Empty fields
// are left to the API defaults.
type RepoListOptions struct {
	// Type is one of all, owner, public, private or member.
	Type      string
	Sort      string
	Direction string
}

func (o RepoListOptions) values() url.Values {
	v := url.Values{}
	if o.Type != "" {
		v.Set("type", o.Type)
	}
	if o.Sort != "" {
		v.Set("sort", o.Sort)
	}
	if o.Direction != "" {
		v.Set("direction", o.Direction)
	}
	return v
}

// CreateRepoRequest is the body of a repository creation.
type CreateRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Homepage    string `json:"homepage,omitempty"`
	Private     bool   `json:"private"`
	AutoInit    bool   `json:"auto_init,omitempty"`
}

// Repo is the repository sub-resource of a user.
type Repo struct {
	session *api.Session
}

// List returns the public repositories of username.
func (r *Repo) List(ctx context.Context, username string, opts RepoListOptions) ([]Repository, error) {
	if err := api.RequireArg("username", username); err != nil {
		return nil, err
	}
	return r.list(ctx, userPath(username)+"/repos", opts.values())
}

// ListAuthenticated returns the repositories the authenticated user can
// access.
func (r *Repo) ListAuthenticated(ctx context.Context, opts RepoListOptions) ([]Repository, error) {
	if err := r.session.RequireAuth(ctx, "repo.ListAuthenticated"); err != nil {
		return nil, err
	}
	return r.list(ctx, "/user/repos", opts.values())
}

// Starred returns the repositories starred by username.
func (r *Repo) Starred(ctx context.Context, username string) ([]Repository, error) {
	if err := api.RequireArg("username", username); err != nil {
		return nil, err
	}
	return r.list(ctx, userPath(username)+"/starred", nil)
}

// StarredAuthenticated returns the repositories starred by the
// authenticated user.
func (r *Repo) StarredAuthenticated(ctx context.Context) ([]Repository, error) {
	if err := r.session.RequireAuth(ctx, "repo.StarredAuthenticated"); err != nil {
		return nil, err
	}
	return r.list(ctx, "/user/starred", nil)
}

// Create creates a repository owned by the authenticated user.
func (r *Repo) Create(ctx context.Context, req CreateRepoRequest) (*Repository, error) {
	if err := r.session.RequireAuth(ctx, "repo.Create"); err != nil {
		return nil, err
	}
	if err := api.RequireArg("name", req.Name); err != nil {
		return nil, err
	}
	resp, err := r.session.Transport().Post(ctx, "/user/repos", req)
	if err != nil {
		return nil, err
	}
	repo, err := api.Decode[Repository](resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &repo, nil
}

func (r *Repo) list(ctx context.Context, path string, params url.Values) ([]Repository, error) {
	resp, err := r.session.Transport().Get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return api.Decode[[]Repository](resp, http.StatusOK)
}
