// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrInvalidCACert     = errors.New("invalid CA certificate")
	ErrNetwork           = errors.New("network error")
	ErrParse             = errors.New("unable to parse response")
	ErrAuthorization     = errors.New("access token rejected")
	ErrProvider          = errors.New("provider error")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrTokenExpired      = errors.New("token is expired")
	ErrTokenNotValidYet  = errors.New("token not valid yet")
	ErrInvalidBirthday   = errors.New("invalid birthday")
	ErrUnknownAvatarSize = errors.New("unknown avatar size")
)

// StatusError is returned when login.yandex.ru answers with a non-2xx
// status.  It matches ErrAuthorization for 401 and 403 and ErrProvider for
// every other status.
type StatusError struct {
	StatusCode int
	Body       []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	kind := ErrProvider
	if e.authorization() {
		kind = ErrAuthorization
	}
	return fmt.Sprintf("%s: %d %s", kind, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is matches ErrAuthorization or ErrProvider.
func (e *StatusError) Is(target error) bool {
	if e.authorization() {
		return target == ErrAuthorization
	}
	return target == ErrProvider
}

func (e *StatusError) authorization() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
