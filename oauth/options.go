// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"github.com/hashicorp/go-hclog"
)

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

// WithScopes provides an optional list of scopes.  For a Config it sets the
// default scopes of every request, for AuthURL and DeviceCode it replaces them.
//
// Valid for: Config, AuthURL and DeviceCode
func WithScopes(scopes ...string) Option {
	return func(o interface{}) {
		switch v := o.(type) {
		case *configOptions:
			v.withScopes = scopes
		case *authURLOptions:
			v.withScopes = scopes
			v.withScopesSet = true
		case *deviceCodeOptions:
			v.withScopes = scopes
			v.withScopesSet = true
		}
	}
}

// WithOptionalScopes provides a list of scopes the user may decline.  Sent as
// the "optional_scope" parameter.
//
// Valid for: AuthURL and DeviceCode
func WithOptionalScopes(scopes ...string) Option {
	return func(o interface{}) {
		switch v := o.(type) {
		case *authURLOptions:
			v.withOptionalScopes = scopes
		case *deviceCodeOptions:
			v.withOptionalScopes = scopes
		}
	}
}

// WithDeviceID provides the unique id of the device the token is requested
// for.  It must be 6 to 50 alphanumeric characters long.
//
// Valid for: AuthURL, Exchange and DeviceCode
func WithDeviceID(id string) Option {
	return func(o interface{}) {
		switch v := o.(type) {
		case *authURLOptions:
			v.withDeviceID = id
		case *exchangeOptions:
			v.withDeviceID = id
		case *deviceCodeOptions:
			v.withDeviceID = id
		}
	}
}

// WithDeviceName provides the human readable name of the device the token is
// requested for.  It must be at most 100 characters long.
//
// Valid for: AuthURL, Exchange and DeviceCode
func WithDeviceName(name string) Option {
	return func(o interface{}) {
		switch v := o.(type) {
		case *authURLOptions:
			v.withDeviceName = name
		case *exchangeOptions:
			v.withDeviceName = name
		case *deviceCodeOptions:
			v.withDeviceName = name
		}
	}
}

// WithLogger provides an optional logger.
//
// Valid for: Config
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if v, ok := o.(*configOptions); ok {
			v.withLogger = l
		}
	}
}
