// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

var (
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrNilParameter      = errors.New("nil parameter")
	ErrInvalidCACert     = errors.New("invalid CA certificate")
	ErrInvalidDeviceID   = fmt.Errorf("invalid device id: %w", ErrInvalidParameter)
	ErrInvalidDeviceName = fmt.Errorf("invalid device name: %w", ErrInvalidParameter)
	ErrIdGeneratorFailed = errors.New("id generation failed")
	ErrNetwork           = errors.New("network error")
	ErrParse             = errors.New("unable to parse response")
	ErrAuthentication    = errors.New("authentication failed")
)

// Errors for the error codes of the Yandex OAuth server.  They are matched by an
// *AuthenticationError with the same code when using errors.Is.
var (
	// ErrAuthorizationPending: the user has not entered the device code yet.
	ErrAuthorizationPending = errors.New("authorization_pending")
	// ErrBadVerificationCode: the code is not a 7 digit number.
	ErrBadVerificationCode = errors.New("bad_verification_code")
	// ErrInvalidClient: unknown client id or wrong client secret.
	ErrInvalidClient = errors.New("invalid_client")
	// ErrInvalidGrant: invalid or expired code or refresh token.
	ErrInvalidGrant = errors.New("invalid_grant")
	// ErrInvalidRequest: malformed request.
	ErrInvalidRequest = errors.New("invalid_request")
	// ErrInvalidScope: the app's scopes changed after the code was issued.
	ErrInvalidScope = errors.New("invalid_scope")
	// ErrUnauthorizedClient: the app is disabled or under moderation.
	ErrUnauthorizedClient = errors.New("unauthorized_client")
	// ErrUnsupportedGrantType: bad grant_type.
	ErrUnsupportedGrantType = errors.New("unsupported_grant_type")
)

var providerCodes = map[string]error{
	ErrAuthorizationPending.Error(): ErrAuthorizationPending,
	ErrBadVerificationCode.Error():  ErrBadVerificationCode,
	ErrInvalidClient.Error():        ErrInvalidClient,
	ErrInvalidGrant.Error():         ErrInvalidGrant,
	ErrInvalidRequest.Error():       ErrInvalidRequest,
	ErrInvalidScope.Error():         ErrInvalidScope,
	ErrUnauthorizedClient.Error():   ErrUnauthorizedClient,
	ErrUnsupportedGrantType.Error(): ErrUnsupportedGrantType,
}

// AuthenticationError is returned when the OAuth server rejects a request.
// Code, Description and URI are the "error", "error_description" and
// "error_uri" values of the response; they are empty when the server did
// not send an error payload.
type AuthenticationError struct {
	StatusCode  int
	Code        string
	Description string
	URI         string
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrAuthentication.Error())
	if e.Code != "" {
		b.WriteString(": ")
		b.WriteString(e.Code)
	}
	if e.Description != "" {
		b.WriteString(": ")
		b.WriteString(e.Description)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	return b.String()
}

// Is matches ErrAuthentication and the sentinel error of the response's
// error code, if the code is a known one.
func (e *AuthenticationError) Is(target error) bool {
	if target == ErrAuthentication {
		return true
	}
	if known, ok := providerCodes[e.Code]; ok {
		return known == target
	}
	return false
}

// errorBody is the error payload of the OAuth server.
type errorBody struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
	URI         string `json:"error_uri"`
}

// parseErrorBody returns the error payload of body, if it has one.
func parseErrorBody(body []byte) (errorBody, bool) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return errorBody{}, false
	}
	return eb, eb.Code != ""
}

func newAuthenticationError(statusCode int, body []byte) *AuthenticationError {
	e := &AuthenticationError{StatusCode: statusCode}
	if eb, ok := parseErrorBody(body); ok {
		e.Code, e.Description, e.URI = eb.Code, eb.Description, eb.URI
	}
	return e
}

// fromRetrieveError converts the error x/oauth2 returns for a rejected
// request.  Some x/oauth2 calls leave ErrorCode empty; the body is parsed in
// that case.
func fromRetrieveError(rErr *oauth2.RetrieveError) *AuthenticationError {
	var status int
	if rErr.Response != nil {
		status = rErr.Response.StatusCode
	}
	if rErr.ErrorCode == "" {
		return newAuthenticationError(status, rErr.Body)
	}
	return &AuthenticationError{
		StatusCode:  status,
		Code:        rErr.ErrorCode,
		Description: rErr.ErrorDescription,
		URI:         rErr.ErrorURI,
	}
}
