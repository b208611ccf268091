// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

package user

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/andrewkroh/go-github-api/api"
)

// PublicKey is an SSH public key attached to an account.
type PublicKey struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Title     string    `json:"title,omitempty"`
	URL       string    `json:"url,omitempty"`
	Verified  bool      `json:"verified"`
	ReadOnly  bool      `json:"read_only"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type createKeyRequest struct {
	Title string `json:"title"`
	Key   string `json:"key"`
}

// Key is the public key sub-resource.
type Key struct {
	session *api.Session
}

// ListForUser returns the public keys of username. No authentication is
// required.
func (k *Key) ListForUser(ctx context.Context, username string) ([]PublicKey, error) {
	if err := api.RequireArg("username", username); err != nil {
		return nil, err
	}
	return k.list(ctx, userPath(username)+"/keys")
}

// List returns the keys of the authenticated user.
func (k *Key) List(ctx context.Context) ([]PublicKey, error) {
	if err := k.session.RequireAuth(ctx, "key.List"); err != nil {
		return nil, err
	}
	return k.list(ctx, "/user/keys")
}

func (k *Key) list(ctx context.Context, path string) ([]PublicKey, error) {
	resp, err := k.session.Transport().Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return api.Decode[[]PublicKey](resp, http.StatusOK)
}

// Get returns a single key of the authenticated user.
func (k *Key) Get(ctx context.Context, id int64) (*PublicKey, error) {
	if err := k.session.RequireAuth(ctx, "key.Get"); err != nil {
		return nil, err
	}
	resp, err := k.session.Transport().Get(ctx, keyPath(id), nil)
	if err != nil {
		return nil, err
	}
	pk, err := api.Decode[PublicKey](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &pk, nil
}

// Create adds a public key to the authenticated user.
func (k *Key) Create(ctx context.Context, title, key string) (*PublicKey, error) {
	if err := k.session.RequireAuth(ctx, "key.Create"); err != nil {
		return nil, err
	}
	if err := api.RequireArg("key", key); err != nil {
		return nil, err
	}
	resp, err := k.session.Transport().Post(ctx, "/user/keys", createKeyRequest{Title: title, Key: key})
	if err != nil {
		return nil, err
	}
	pk, err := api.Decode[PublicKey](resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &pk, nil
}

// Delete removes a key from the authenticated user.
func (k *Key) Delete(ctx context.Context, id int64) (bool, error) {
	if err := k.session.RequireAuth(ctx, "key.Delete"); err != nil {
		return false, err
	}
	resp, err := k.session.Transport().Delete(ctx, keyPath(id), nil)
	if err != nil {
		return false, err
	}
	return api.NoContent(resp)
}

func keyPath(id int64) string {
	return "/user/keys/" + strconv.FormatInt(id, 10)
}
