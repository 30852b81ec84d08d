// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"net/http"

	"github.com/hashicorp/yandexid/oauth"
)

// SuccessResponseFunc is used by AuthCode to create a http response when the
// callback is successful.
//
// The function state parameter will contain the state that was returned as
// part of a successful authorization response. The oauth.Token is the result
// of a successful code exchange with the provider.  The function should use
// the http.ResponseWriter to send back whatever content (headers, html, JSON,
// etc) it wishes to the client that originated the flow.
type SuccessResponseFunc func(state string, t *oauth.Token, w http.ResponseWriter, req *http.Request)

// ErrorResponseFunc is used by AuthCode to create a http response when the
// callback fails.
//
// The function receives the state returned as part of the authorization
// response.  It also gets the parameters of the provider's error response
// and/or the callback error raised while processing the request.
type ErrorResponseFunc func(state string, respErr *AuthenErrorResponse, e error, w http.ResponseWriter, req *http.Request)

// AuthenErrorResponse represents the error parameters the provider adds to the
// redirect URL when the user denies access or the request is invalid.
type AuthenErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
	Uri         string `json:"error_uri,omitempty"`
}
