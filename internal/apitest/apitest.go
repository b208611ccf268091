// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

// Package apitest provides a fake api.Transport for resource tests.
package apitest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/andrewkroh/go-github-api/api"
)

// Call is a single request seen by the fake Transport.
type Call struct {
	Method string
	Path   string
	Params url.Values
	Body   any
}

// Transport implements api.Transport for testing. Each verb delegates to
// the matching function field; a verb whose field is nil fails the call.
// Every request is recorded, including failed ones.
type Transport struct {
	GetFunc    func(path string, params url.Values) (*api.Response, error)
	PutFunc    func(path string, body any) (*api.Response, error)
	PatchFunc  func(path string, body any) (*api.Response, error)
	DeleteFunc func(path string, body any) (*api.Response, error)
	PostFunc   func(path string, body any) (*api.Response, error)

	mu          sync.Mutex
	calls       []Call
	credentials *api.Credentials
}

var _ api.Transport = (*Transport)(nil)

func (t *Transport) record(c Call) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, c)
}

func (t *Transport) Get(_ context.Context, path string, params url.Values) (*api.Response, error) {
	t.record(Call{Method: http.MethodGet, Path: path, Params: params})
	if t.GetFunc == nil {
		return nil, fmt.Errorf("apitest: unexpected GET %s", path)
	}
	return t.GetFunc(path, params)
}

func (t *Transport) Put(_ context.Context, path string, body any) (*api.Response, error) {
	t.record(Call{Method: http.MethodPut, Path: path, Body: body})
	if t.PutFunc == nil {
		return nil, fmt.Errorf("apitest: unexpected PUT %s", path)
	}
	return t.PutFunc(path, body)
}

func (t *Transport) Patch(_ context.Context, path string, body any) (*api.Response, error) {
	t.record(Call{Method: http.MethodPatch, Path: path, Body: body})
	if t.PatchFunc == nil {
		return nil, fmt.Errorf("apitest: unexpected PATCH %s", path)
	}
	return t.PatchFunc(path, body)
}

func (t *Transport) Delete(_ context.Context, path string, body any) (*api.Response, error) {
	t.record(Call{Method: http.MethodDelete, Path: path, Body: body})
	if t.DeleteFunc == nil {
		return nil, fmt.Errorf("apitest: unexpected DELETE %s", path)
	}
	return t.DeleteFunc(path, body)
}

func (t *Transport) Post(_ context.Context, path string, body any) (*api.Response, error) {
	t.record(Call{Method: http.MethodPost, Path: path, Body: body})
	if t.PostFunc == nil {
		return nil, fmt.Errorf("apitest: unexpected POST %s", path)
	}
	return t.PostFunc(path, body)
}

func (t *Transport) SetCredentials(c api.Credentials) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credentials = &c
}

func (t *Transport) ClearCredentials() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credentials = nil
}

// Calls returns the requests seen so far.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// Credentials returns the credentials currently pushed by the session,
// or nil when requests are anonymous.
func (t *Transport) Credentials() *api.Credentials {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.credentials
}

// Respond returns a function that answers with status and data. An empty
// data string produces an empty body.
func Respond(status int, data string) func(string, any) (*api.Response, error) {
	return func(string, any) (*api.Response, error) {
		return &api.Response{Status: status, Data: []byte(data)}, nil
	}
}

// RespondGet is Respond for GetFunc.
func RespondGet(status int, data string) func(string, url.Values) (*api.Response, error) {
	return func(string, url.Values) (*api.Response, error) {
		return &api.Response{Status: status, Data: []byte(data)}, nil
	}
}

// LoggedIn returns a session over t that is already authenticated with a
// username/password pair.
func LoggedIn(t *Transport) *api.Session {
	s := api.NewSession(t)
	if err := s.SetCredentials("username", "password"); err != nil {
		panic(err)
	}
	if err := s.Login(); err != nil {
		panic(err)
	}
	return s
}
