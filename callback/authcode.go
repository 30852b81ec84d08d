// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hashicorp/yandexid/oauth"
)

var (
	// ErrInvalidState is passed to the ErrorResponseFunc when the "state"
	// of the response doesn't match the state of the authorization URL.
	ErrInvalidState = errors.New("authen state and response state are not equal")

	// ErrMissingCode is passed to the ErrorResponseFunc when the response has
	// neither "code" nor "error".
	ErrMissingCode = errors.New("authorization code is missing")
)

// AuthCode creates an authorization code callback handler.  The state is the
// value given to oauth.WithState for the authorization URL; the handler only
// exchanges codes of responses carrying the same state.
//
// The SuccessResponseFunc is used to create a response when callback is
// successful. The ErrorResponseFunc is to create a response when the callback
// fails.
func AuthCode(ctx context.Context, c *oauth.Client, state string, sFn SuccessResponseFunc, eFn ErrorResponseFunc) (http.HandlerFunc, error) {
	const op = "callback.AuthCode"
	switch {
	case c == nil:
		return nil, fmt.Errorf("%s: client is nil: %w", op, oauth.ErrInvalidParameter)
	case state == "":
		return nil, fmt.Errorf("%s: state is empty: %w", op, oauth.ErrInvalidParameter)
	case sFn == nil:
		return nil, fmt.Errorf("%s: success response func is nil: %w", op, oauth.ErrInvalidParameter)
	case eFn == nil:
		return nil, fmt.Errorf("%s: error response func is nil: %w", op, oauth.ErrInvalidParameter)
	}
	return func(w http.ResponseWriter, req *http.Request) {
		// get parameters from either the body or query parameters.
		// FormValue prioritizes body values, if found
		reqState := req.FormValue("state")

		if err := req.FormValue("error"); err != "" {
			reqError := &AuthenErrorResponse{
				Error:       err,
				Description: req.FormValue("error_description"),
				Uri:         req.FormValue("error_uri"),
			}
			eFn(reqState, reqError, nil, w, req)
			return
		}

		if reqState != state {
			eFn(reqState, nil, fmt.Errorf("%s: %w", op, ErrInvalidState), w, req)
			return
		}

		reqCode := req.FormValue("code")
		if reqCode == "" {
			eFn(reqState, nil, fmt.Errorf("%s: %w", op, ErrMissingCode), w, req)
			return
		}

		tk, err := c.Exchange(ctx, reqCode)
		if err != nil {
			eFn(reqState, nil, fmt.Errorf("%s: unable to exchange authorization code: %w", op, err), w, req)
			return
		}
		sFn(reqState, tk, w, req)
	}, nil
}
