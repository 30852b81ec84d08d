// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"
)

// DefaultBaseURL is the Yandex ID API server.
const DefaultBaseURL = "https://login.yandex.ru"

// Option defines a common functional options type which can be used in a
// variadic parameter pattern.
type Option func(interface{})

// ApplyOpts takes a pointer to the options struct as a set of default options
// and applies the slice of opts as overrides.
func ApplyOpts(opts interface{}, opt ...Option) {
	for _, o := range opt {
		if o == nil { // ignore any nil Options
			continue
		}
		o(opts)
	}
}

// clientOptions is the set of available options for NewClient
type clientOptions struct {
	withBaseURL    string
	withProviderCA string
	withLogger     hclog.Logger
	withClock      clockwork.Clock
}

func clientDefaults() clientOptions {
	return clientOptions{
		withBaseURL: DefaultBaseURL,
		withLogger:  hclog.NewNullLogger(),
		withClock:   clockwork.NewRealClock(),
	}
}

func getClientOpts(opt ...Option) clientOptions {
	opts := clientDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// requestOptions is the set of available options for the UserInfo requests
type requestOptions struct {
	withOpenIDIdentity bool
	withJWTSecret      string
}

func getRequestOpts(opt ...Option) requestOptions {
	opts := requestOptions{}
	ApplyOpts(&opts, opt...)
	return opts
}

// WithBaseURL provides an optional base URL of the Yandex ID API server.
//
// Valid for: NewClient
func WithBaseURL(u string) Option {
	return func(o interface{}) {
		if v, ok := o.(*clientOptions); ok {
			v.withBaseURL = u
		}
	}
}

// WithProviderCA provides an optional CA cert for the API server.
//
// Valid for: NewClient
func WithProviderCA(cert string) Option {
	return func(o interface{}) {
		if v, ok := o.(*clientOptions); ok {
			v.withProviderCA = cert
		}
	}
}

// WithLogger provides an optional logger.
//
// Valid for: NewClient
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if v, ok := o.(*clientOptions); ok && l != nil {
			v.withLogger = l
		}
	}
}

// WithClock provides an optional clock used when validating the exp, nbf
// and iat claims of a JWT.
//
// Valid for: NewClient
func WithClock(clock clockwork.Clock) Option {
	return func(o interface{}) {
		if v, ok := o.(*clientOptions); ok && clock != nil {
			v.withClock = clock
		}
	}
}

// WithOpenIDIdentity asks for the OpenID identifiers the user had, sent back
// as "openid_identities".
//
// Valid for: UserInfo, UserInfoJSON, UserInfoXML, UserInfoJWT and
// UserInfoClaims
func WithOpenIDIdentity() Option {
	return func(o interface{}) {
		if v, ok := o.(*requestOptions); ok {
			v.withOpenIDIdentity = true
		}
	}
}

// WithJWTSecret provides the secret the provider signs the JWT with instead of
// the client secret.  Yandex advises against it, so a warning is logged.
//
// Valid for: UserInfoJWT and UserInfoClaims
func WithJWTSecret(secret string) Option {
	return func(o interface{}) {
		if v, ok := o.(*requestOptions); ok {
			v.withJWTSecret = secret
		}
	}
}
