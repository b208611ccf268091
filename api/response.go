// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Decode checks that resp carries the wanted status and decodes its body
// into a value of type T. Any other status is returned as an *APIError.
func Decode[T any](resp *Response, want int) (T, error) {
	var v T
	if resp.Status != want {
		return v, newAPIError(resp)
	}
	if len(resp.Data) == 0 {
		return v, fmt.Errorf("github: empty %T response body", v)
	}
	if err := json.Unmarshal(resp.Data, &v); err != nil {
		return v, fmt.Errorf("github: decoding %T response: %w", v, err)
	}
	return v, nil
}

// NoContent maps a 204 No Content response to true. Any other status is
// returned as an *APIError.
func NoContent(resp *Response) (bool, error) {
	if resp.Status != http.StatusNoContent {
		return false, newAPIError(resp)
	}
	return true, nil
}

// Exists maps 204 to true and 404 to false. It is used by the "check"
// endpoints (is following, is starred) that answer with an empty body.
func Exists(resp *Response) (bool, error) {
	switch resp.Status {
	case http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, newAPIError(resp)
	}
}
