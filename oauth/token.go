// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"golang.org/x/oauth2"
)

// AccessToken is an oauth access_token
type AccessToken string

// RedactedAccessToken is the redacted string or json for an oauth access_token
const RedactedAccessToken = "[REDACTED: access_token]"

// String will redact the token
func (t AccessToken) String() string {
	return RedactedAccessToken
}

// MarshalJSON will redact the token
func (t AccessToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedAccessToken)
}

// RefreshToken is an oauth refresh_token
type RefreshToken string

// RedactedRefreshToken is the redacted string or json for an oauth refresh_token
const RedactedRefreshToken = "[REDACTED: refresh_token]"

// String will redact the token
func (t RefreshToken) String() string {
	return RedactedRefreshToken
}

// MarshalJSON will redact the token
func (t RefreshToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedRefreshToken)
}

// Token is the response of the token endpoint.  Every field holds the value
// the server sent, unchanged.
type Token struct {
	// AccessToken is the OAuth token for Yandex APIs.
	AccessToken AccessToken `json:"access_token"`

	// TokenType is always "bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime of the access token in seconds.
	ExpiresIn int64 `json:"expires_in"`

	// RefreshToken can be exchanged for a new access token.
	RefreshToken RefreshToken `json:"refresh_token"`

	// Scope is only sent when the user declined some of the requested scopes.
	Scope string `json:"scope,omitempty"`
}

// Lifetime returns ExpiresIn as a time.Duration.
func (t *Token) Lifetime() time.Duration {
	return time.Duration(t.ExpiresIn) * time.Second
}

// Valid reports whether t is non-nil and has an access token.  It doesn't
// know when the token was issued, so it can't tell if it expired.
func (t *Token) Valid() bool {
	return t != nil && t.AccessToken != ""
}

// tokenFromOAuth2 maps the raw token endpoint response kept by x/oauth2 to a
// Token.  The parsed fields of oauth2.Token are not used since x/oauth2
// fills some of them in on its own.
func tokenFromOAuth2(tk *oauth2.Token) (*Token, error) {
	if tk == nil {
		return nil, fmt.Errorf("empty token response: %w", ErrParse)
	}
	var (
		t   Token
		err error
	)
	var access, refresh string
	if access, err = stringField(tk, "access_token", true); err != nil {
		return nil, err
	}
	if t.TokenType, err = stringField(tk, "token_type", true); err != nil {
		return nil, err
	}
	if t.ExpiresIn, err = intField(tk, "expires_in", true); err != nil {
		return nil, err
	}
	if refresh, err = stringField(tk, "refresh_token", true); err != nil {
		return nil, err
	}
	if t.Scope, err = stringField(tk, "scope", false); err != nil {
		return nil, err
	}
	t.AccessToken, t.RefreshToken = AccessToken(access), RefreshToken(refresh)
	return &t, nil
}

func stringField(tk *oauth2.Token, key string, required bool) (string, error) {
	switch v := tk.Extra(key).(type) {
	case nil:
		if required {
			return "", fmt.Errorf("%s is missing: %w", key, ErrParse)
		}
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%s is a %T, not a string: %w", key, v, ErrParse)
	}
}

func intField(tk *oauth2.Token, key string, required bool) (int64, error) {
	switch v := tk.Extra(key).(type) {
	case nil:
		if required {
			return 0, fmt.Errorf("%s is missing: %w", key, ErrParse)
		}
		return 0, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%s is not an integer: %w", key, ErrParse)
		}
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("%s is a %T, not a number: %w", key, v, ErrParse)
	}
}
