// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/oauth2"

	"github.com/hashicorp/yandexid/internal/httpclient"
	"github.com/hashicorp/yandexid/internal/strutils"
)

// DefaultBaseURL is the Yandex OAuth server.
const DefaultBaseURL = "https://oauth.yandex.ru"

const (
	authorizePath  = "/authorize"
	tokenPath      = "/token"
	deviceCodePath = "/device/code"
	revokePath     = "/revoke_token"
)

// ClientSecret is an oauth client secret.
type ClientSecret string

// RedactedClientSecret is the redacted string or json for an oauth client secret
const RedactedClientSecret = "[REDACTED: client secret]"

// String will redact the client secret
func (t ClientSecret) String() string {
	return RedactedClientSecret
}

// MarshalJSON will redact the client secret
func (t ClientSecret) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedClientSecret)
}

// AuthStyle is how the client authenticates itself to the token endpoint.
type AuthStyle int

const (
	// AuthStyleInParams sends client_id and client_secret in the form body.
	AuthStyleInParams AuthStyle = iota

	// AuthStyleInHeader sends them with HTTP Basic authorization.
	AuthStyleInHeader
)

// Config represents the configuration of an OAuth client registered with
// Yandex ID.
type Config struct {
	// ClientId is the application id from oauth.yandex.ru
	ClientId string

	// ClientSecret is the application secret from oauth.yandex.ru
	ClientSecret ClientSecret

	// RedirectUrl is the callback URL of the application.  It must be one of
	// the redirect URIs registered for the application.
	RedirectUrl string

	// Scopes is an optional list of scopes to request, for example
	// "login:info" or "login:email".  When empty, the scopes configured for the
	// application are used.
	Scopes []string

	// BaseURL of the OAuth server.  Defaults to DefaultBaseURL.
	BaseURL string

	// ProviderCA is an optional CA cert to use when sending requests to the provider.
	ProviderCA string

	// AuthStyle used for the token endpoint.  Defaults to AuthStyleInParams.
	AuthStyle AuthStyle

	// Logger is an optional logger.
	Logger hclog.Logger
}

// NewConfig composes a new config for an OAuth client.
// Supported options:
//   - WithScopes
//   - WithBaseURL
//   - WithProviderCA
//   - WithAuthStyle
//   - WithLogger
func NewConfig(clientId string, clientSecret ClientSecret, redirectUrl string, opt ...Option) (*Config, error) {
	const op = "NewConfig"
	opts := getConfigOpts(opt...)
	c := &Config{
		ClientId:     clientId,
		ClientSecret: clientSecret,
		RedirectUrl:  redirectUrl,
		Scopes:       strutils.RemoveDuplicatesStable(opts.withScopes, false),
		BaseURL:      opts.withBaseURL,
		ProviderCA:   opts.withProviderCA,
		AuthStyle:    opts.withAuthStyle,
		Logger:       opts.withLogger,
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid provider config: %w", op, err)
	}
	return c, nil
}

// Validate the config.  Every problem found is reported, not only the first
// one.  It doesn't verify the BaseURL is reachable.
func (c *Config) Validate() error {
	const op = "Config.Validate"
	if c == nil {
		return fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	var result *multierror.Error
	if c.ClientId == "" {
		result = multierror.Append(result, fmt.Errorf("client id is empty: %w", ErrInvalidParameter))
	}
	if c.ClientSecret == "" {
		result = multierror.Append(result, fmt.Errorf("client secret is empty: %w", ErrInvalidParameter))
	}
	switch {
	case c.RedirectUrl == "":
		result = multierror.Append(result, fmt.Errorf("redirect URL is empty: %w", ErrInvalidParameter))
	default:
		u, err := url.Parse(c.RedirectUrl)
		if err != nil || u.Scheme == "" {
			result = multierror.Append(result, fmt.Errorf("redirect URL %q is not an absolute URL: %w", c.RedirectUrl, ErrInvalidParameter))
		}
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		switch {
		case err != nil:
			result = multierror.Append(result, fmt.Errorf("base URL %q is invalid: %w", c.BaseURL, ErrInvalidParameter))
		case !strutils.StrListContains([]string{"https", "http"}, u.Scheme) || u.Host == "":
			result = multierror.Append(result, fmt.Errorf("base URL %q schema is not http or https: %w", c.BaseURL, ErrInvalidParameter))
		}
	}
	if c.ProviderCA != "" {
		if ok := x509.NewCertPool().AppendCertsFromPEM([]byte(c.ProviderCA)); !ok {
			result = multierror.Append(result, fmt.Errorf("could not parse CA PEM value: %w", ErrInvalidCACert))
		}
	}
	switch c.AuthStyle {
	case AuthStyleInParams, AuthStyleInHeader:
	default:
		result = multierror.Append(result, fmt.Errorf("unsupported auth style %d: %w", c.AuthStyle, ErrInvalidParameter))
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// HttpClient is a helper function that creates a new http client for the
// provider configured
func (c *Config) HttpClient() (*http.Client, error) {
	const op = "Config.HttpClient"
	client, err := httpclient.New(c.ProviderCA)
	if err != nil {
		if errors.Is(err, httpclient.ErrInvalidCertificatePem) {
			return nil, fmt.Errorf("%s: could not parse CA PEM value: %w", op, ErrInvalidCACert)
		}
		return nil, fmt.Errorf("%s: could not get an http client: %w", op, err)
	}
	return client, nil
}

// HttpClientContext is a helper function that returns a new Context that
// carries the provided HTTP client. This method sets the same context key used
// by the golang.org/x/oauth2 package, so the returned context works for that
// package as well.
func HttpClientContext(ctx context.Context, client *http.Client) context.Context {
	return httpclient.ClientContext(ctx, client)
}

func (c *Config) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(c.BaseURL, "/")
}

func (c *Config) endpoint(path string) string {
	return c.baseURL() + path
}

// oauth2Config returns the x/oauth2 view of the config.
func (c *Config) oauth2Config() oauth2.Config {
	style := oauth2.AuthStyleInParams
	if c.AuthStyle == AuthStyleInHeader {
		style = oauth2.AuthStyleInHeader
	}
	return oauth2.Config{
		ClientID:     c.ClientId,
		ClientSecret: string(c.ClientSecret),
		RedirectURL:  c.RedirectUrl,
		Scopes:       append([]string(nil), c.Scopes...),
		Endpoint: oauth2.Endpoint{
			AuthURL:       c.endpoint(authorizePath),
			TokenURL:      c.endpoint(tokenPath),
			DeviceAuthURL: c.endpoint(deviceCodePath),
			AuthStyle:     style,
		},
	}
}

func (c *Config) clone() *Config {
	cp := *c
	cp.Scopes = append([]string(nil), c.Scopes...)
	if cp.Logger == nil {
		cp.Logger = hclog.NewNullLogger()
	}
	return &cp
}

// configOptions is the set of available options for a Config
type configOptions struct {
	withScopes     []string
	withBaseURL    string
	withProviderCA string
	withAuthStyle  AuthStyle
	withLogger     hclog.Logger
}

// configDefaults is a handy way to get the defaults at runtime and
// during unit tests.
func configDefaults() configOptions {
	return configOptions{
		withAuthStyle: AuthStyleInParams,
		withLogger:    hclog.NewNullLogger(),
	}
}

// getConfigOpts gets the defaults and applies the opt overrides passed
// in.
func getConfigOpts(opt ...Option) configOptions {
	opts := configDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithBaseURL provides an optional base URL of the OAuth server, which is
// mostly useful for tests.
//
// Valid for: Config
func WithBaseURL(u string) Option {
	return func(o interface{}) {
		if v, ok := o.(*configOptions); ok {
			v.withBaseURL = u
		}
	}
}

// WithProviderCA provides an optional CA cert for the provider's config
//
// Valid for: Config
func WithProviderCA(cert string) Option {
	return func(o interface{}) {
		if v, ok := o.(*configOptions); ok {
			v.withProviderCA = cert
		}
	}
}

// WithAuthStyle provides an optional AuthStyle for the token endpoint.
//
// Valid for: Config
func WithAuthStyle(s AuthStyle) Option {
	return func(o interface{}) {
		if v, ok := o.(*configOptions); ok {
			v.withAuthStyle = s
		}
	}
}
