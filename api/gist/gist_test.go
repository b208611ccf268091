// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

package gist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/andrewkroh/go-github-api/api"
	"github.com/andrewkroh/go-github-api/internal/apitest"
)

const gistJSON = `{
	"id": "aa5a315d61ae9438b18d",
	"url": "https://api.github.com/gists/aa5a315d61ae9438b18d",
	"html_url": "https://gist.github.com/aa5a315d61ae9438b18d",
	"description": "description of gist",
	"public": true,
	"owner": {"login": "octocat", "id": 1},
	"files": {
		"ring.erl": {
			"filename": "ring.erl",
			"type": "text/plain",
			"language": "Erlang",
			"raw_url": "https://gist.githubusercontent.com/raw/365370/8c4d2d43d178df44f4c03a7f2ac0ff512853564e/ring.erl",
			"size": 932,
			"content": "contents of gist"
		}
	},
	"comments": 0,
	"created_at": "2010-04-14T02:15:15Z",
	"updated_at": "2011-06-20T11:34:15Z"
}`

const gistID = "aa5a315d61ae9438b18d"

func assertNoCalls(t *testing.T, tr *apitest.Transport) {
	t.Helper()
	if calls := tr.Calls(); len(calls) != 0 {
		t.Errorf("expected transport not to be called, got %d calls: %+v", len(calls), calls)
	}
}

func assertOneCall(t *testing.T, tr *apitest.Transport, method, path string) apitest.Call {
	t.Helper()
	calls := tr.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 transport call, got %d: %+v", len(calls), calls)
	}
	if calls[0].Method != method || calls[0].Path != path {
		t.Errorf("call: got %s %s, want %s %s", calls[0].Method, calls[0].Path, method, path)
	}
	return calls[0]
}

func TestGist_ListForUser(t *testing.T) {
	tr := &apitest.Transport{GetFunc: apitest.RespondGet(http.StatusOK, "["+gistJSON+"]")}
	g := New(api.NewSession(tr))

	got, err := g.List(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	assertOneCall(t, tr, http.MethodGet, "/users/octocat/gists")
	if len(got) != 1 || got[0].ID != gistID {
		t.Fatalf("unexpected gists: %+v", got)
	}
	if got[0].Owner == nil || got[0].Owner.Login != "octocat" {
		t.Errorf("owner: got %+v", got[0].Owner)
	}
	if got[0].Files["ring.erl"].Language != "Erlang" {
		t.Errorf("file language: got %q", got[0].Files["ring.erl"].Language)
	}
}

func TestGist_ListEmptyUsername(t *testing.T) {
	tr := &apitest.Transport{}
	g := New(api.NewSession(tr))

	_, err := g.List(context.Background(), "")
	if !errors.Is(err, api.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got: %v", err)
	}
	assertNoCalls(t, tr)
}

func TestGist_Public(t *testing.T) {
	tr := &apitest.Transport{GetFunc: apitest.RespondGet(http.StatusOK, "["+gistJSON+"]")}
	g := New(api.NewSession(tr))

	got, err := g.Public(context.Background())
	if err != nil {
		t.Fatalf("Public returned error: %v", err)
	}
	assertOneCall(t, tr, http.MethodGet, "/gists/public")
	if len(got) != 1 {
		t.Errorf("expected 1 gist, got %d", len(got))
	}
}

func TestGist_Get(t *testing.T) {
	tr := &apitest.Transport{GetFunc: apitest.RespondGet(http.StatusOK, gistJSON)}
	g := New(api.NewSession(tr))

	got, err := g.Get(context.Background(), gistID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	assertOneCall(t, tr, http.MethodGet, "/gists/"+gistID)
	if got.Files["ring.erl"].Content != "contents of gist" {
		t.Errorf("content: got %q", got.Files["ring.erl"].Content)
	}
	if got.CreatedAt.Year() != 2010 {
		t.Errorf("created_at: got %v", got.CreatedAt)
	}
}

func TestGist_GetNotFound(t *testing.T) {
	tr := &apitest.Transport{GetFunc: apitest.RespondGet(http.StatusNotFound, `{"message":"Not Found"}`)}
	g := New(api.NewSession(tr))

	_, err := g.Get(context.Background(), "missing")
	if !errors.Is(err, api.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestGist_CreateAuthenticated(t *testing.T) {
	tr := &apitest.Transport{PostFunc: apitest.Respond(http.StatusCreated, gistJSON)}
	g := New(apitest.LoggedIn(tr))

	req := CreateRequest{
		Description: "description of gist",
		Public:      true,
		Files:       map[string]FileContent{"ring.erl": {Content: "contents of gist"}},
	}
	got, err := g.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	call := assertOneCall(t, tr, http.MethodPost, "/gists")

	body, _ := json.Marshal(call.Body)
	var sent map[string]any
	if err := json.Unmarshal(body, &sent); err != nil {
		t.Fatal(err)
	}
	if sent["public"] != true {
		t.Errorf("public: got %v", sent["public"])
	}
	if got.ID != gistID {
		t.Errorf("ID: got %q", got.ID)
	}
}

func TestGist_CreateWithoutFiles(t *testing.T) {
	tr := &apitest.Transport{}
	g := New(apitest.LoggedIn(tr))

	_, err := g.Create(context.Background(), CreateRequest{Description: "empty"})
	if !errors.Is(err, api.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got: %v", err)
	}
	assertNoCalls(t, tr)
}

func TestGist_UpdateDeletesFile(t *testing.T) {
	tr := &apitest.Transport{PatchFunc: apitest.Respond(http.StatusOK, gistJSON)}
	g := New(apitest.LoggedIn(tr))

	desc := "new description"
	_, err := g.Update(context.Background(), gistID, UpdateRequest{
		Description: &desc,
		Files:       map[string]*FileContent{"old.txt": nil},
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	call := assertOneCall(t, tr, http.MethodPatch, "/gists/"+gistID)

	body, _ := json.Marshal(call.Body)
	want := `{"description":"new description","files":{"old.txt":null}}`
	if string(body) != want {
		t.Errorf("body: got %s, want %s", body, want)
	}
}

func TestGist_NoContentOperations(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		call   func(*Gist, context.Context, string) (bool, error)
	}{
		{name: "delete", method: http.MethodDelete, path: "/gists/" + gistID, call: (*Gist).Delete},
		{name: "star", method: http.MethodPut, path: "/gists/" + gistID + "/star", call: (*Gist).Star},
		{name: "unstar", method: http.MethodDelete, path: "/gists/" + gistID + "/star", call: (*Gist).Unstar},
		{name: "is starred", method: http.MethodGet, path: "/gists/" + gistID + "/star", call: (*Gist).IsStarred},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &apitest.Transport{
				GetFunc:    apitest.RespondGet(http.StatusNoContent, ""),
				PutFunc:    apitest.Respond(http.StatusNoContent, ""),
				DeleteFunc: apitest.Respond(http.StatusNoContent, ""),
			}
			g := New(apitest.LoggedIn(tr))

			ok, err := tt.call(g, context.Background(), gistID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ok {
				t.Error("expected true")
			}
			assertOneCall(t, tr, tt.method, tt.path)
		})
	}
}

func TestGist_IsStarredFalse(t *testing.T) {
	tr := &apitest.Transport{GetFunc: apitest.RespondGet(http.StatusNotFound, "")}
	g := New(apitest.LoggedIn(tr))

	ok, err := g.IsStarred(context.Background(), gistID)
	if err != nil {
		t.Fatalf("IsStarred returned error: %v", err)
	}
	if ok {
		t.Error("expected false for 404")
	}
}

func TestGist_Fork(t *testing.T) {
	tr := &apitest.Transport{PostFunc: apitest.Respond(http.StatusCreated, gistJSON)}
	g := New(apitest.LoggedIn(tr))

	got, err := g.Fork(context.Background(), gistID)
	if err != nil {
		t.Fatalf("Fork returned error: %v", err)
	}
	assertOneCall(t, tr, http.MethodPost, "/gists/"+gistID+"/forks")
	if got.ID != gistID {
		t.Errorf("ID: got %q", got.ID)
	}
}

func TestGist_Unauthenticated(t *testing.T) {
	ctx := context.Background()
	ops := map[string]func(*Gist) error{
		"ListAuthenticated": func(g *Gist) error { _, err := g.ListAuthenticated(ctx); return err },
		"Starred":           func(g *Gist) error { _, err := g.Starred(ctx); return err },
		"Create": func(g *Gist) error {
			_, err := g.Create(ctx, CreateRequest{Files: map[string]FileContent{"a": {Content: "b"}}})
			return err
		},
		"Update":    func(g *Gist) error { _, err := g.Update(ctx, gistID, UpdateRequest{}); return err },
		"Delete":    func(g *Gist) error { _, err := g.Delete(ctx, gistID); return err },
		"Star":      func(g *Gist) error { _, err := g.Star(ctx, gistID); return err },
		"Unstar":    func(g *Gist) error { _, err := g.Unstar(ctx, gistID); return err },
		"IsStarred": func(g *Gist) error { _, err := g.IsStarred(ctx, gistID); return err },
		"Fork":      func(g *Gist) error { _, err := g.Fork(ctx, gistID); return err },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			tr := &apitest.Transport{
				GetFunc:    apitest.RespondGet(http.StatusOK, "[]"),
				PutFunc:    apitest.Respond(http.StatusNoContent, ""),
				PatchFunc:  apitest.Respond(http.StatusOK, gistJSON),
				DeleteFunc: apitest.Respond(http.StatusNoContent, ""),
				PostFunc:   apitest.Respond(http.StatusCreated, gistJSON),
			}
			session := api.NewSession(tr)
			// Credentials set but never logged in.
			if err := session.SetToken("token"); err != nil {
				t.Fatal(err)
			}

			if err := op(New(session)); !errors.Is(err, api.ErrAuthentication) {
				t.Errorf("expected ErrAuthentication, got: %v", err)
			}
			assertNoCalls(t, tr)
		})
	}
}

func TestGist_ListAuthenticatedParams(t *testing.T) {
	var gotParams url.Values
	tr := &apitest.Transport{GetFunc: func(path string, params url.Values) (*api.Response, error) {
		gotParams = params
		return &api.Response{Status: http.StatusOK, Data: []byte("[]")}, nil
	}}
	g := New(apitest.LoggedIn(tr))

	got, err := g.ListAuthenticated(context.Background())
	if err != nil {
		t.Fatalf("ListAuthenticated returned error: %v", err)
	}
	assertOneCall(t, tr, http.MethodGet, "/gists")
	if len(got) != 0 {
		t.Errorf("expected no gists, got %d", len(got))
	}
	if len(gotParams) != 0 {
		t.Errorf("expected no query params, got %v", gotParams)
	}
}
