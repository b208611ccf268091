// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

package api

import (
	"errors"
	"net/http"
	"testing"
)

type login struct {
	Login string `json:"login"`
}

func TestDecode_Success(t *testing.T) {
	resp := &Response{Status: http.StatusOK, Data: []byte(`{"login":"octocat"}`)}
	got, err := Decode[login](resp, http.StatusOK)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if got.Login != "octocat" {
		t.Errorf("Login: got %q, want %q", got.Login, "octocat")
	}
}

func TestDecode_UnexpectedStatus(t *testing.T) {
	resp := &Response{
		Status: http.StatusNotFound,
		Data:   []byte(`{"message":"Not Found","documentation_url":"https://docs.github.com/rest"}`),
	}
	_, err := Decode[login](resp, http.StatusOK)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got: %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode: got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Not Found" {
		t.Errorf("Message: got %q", apiErr.Message)
	}
	if apiErr.DocumentationURL != "https://docs.github.com/rest" {
		t.Errorf("DocumentationURL: got %q", apiErr.DocumentationURL)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is(err, ErrNotFound)")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("404 should not match ErrUnauthorized")
	}
}

func TestDecode_Unauthorized(t *testing.T) {
	resp := &Response{Status: http.StatusUnauthorized, Data: []byte(`{"message":"Bad credentials"}`)}
	_, err := Decode[login](resp, http.StatusOK)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got: %v", err)
	}
	if got, want := err.Error(), "github: unexpected status 401: Bad credentials"; got != want {
		t.Errorf("Error(): got %q, want %q", got, want)
	}
}

func TestDecode_EmptyBody(t *testing.T) {
	_, err := Decode[login](&Response{Status: http.StatusOK}, http.StatusOK)
	if err == nil {
		t.Fatal("expected error for empty body, got nil")
	}
}

func TestDecode_MalformedBody(t *testing.T) {
	_, err := Decode[login](&Response{Status: http.StatusOK, Data: []byte(`{`)}, http.StatusOK)
	if err == nil {
		t.Fatal("expected error for malformed body, got nil")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("malformed body should not be reported as an APIError")
	}
}

func TestNoContent(t *testing.T) {
	ok, err := NoContent(&Response{Status: http.StatusNoContent})
	if err != nil || !ok {
		t.Errorf("204: got (%v, %v), want (true, nil)", ok, err)
	}

	ok, err = NoContent(&Response{Status: http.StatusOK, Data: []byte(`{}`)})
	if err == nil || ok {
		t.Errorf("200: got (%v, %v), want (false, error)", ok, err)
	}
}

func TestExists(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		want    bool
		wantErr bool
	}{
		{name: "no content", status: http.StatusNoContent, want: true},
		{name: "not found", status: http.StatusNotFound, want: false},
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Exists(&Response{Status: tt.status})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Exists() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Exists() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPIError_NoMessage(t *testing.T) {
	err := newAPIError(&Response{Status: http.StatusBadGateway, Data: []byte("<html>")})
	if got, want := err.Error(), "github: unexpected status 502"; got != want {
		t.Errorf("Error(): got %q, want %q", got, want)
	}
}
