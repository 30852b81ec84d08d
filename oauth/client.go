// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"
)

// maxResponseSize bounds the bodies read from the OAuth server.
const maxResponseSize = 1 << 20

// ResponseType of an authorization request.
type ResponseType string

const (
	// ResponseTypeCode asks for an authorization code, exchanged later with
	// Client.Exchange.
	ResponseTypeCode ResponseType = "code"

	// ResponseTypeToken asks for an access token in the redirect URL fragment.
	ResponseTypeToken ResponseType = "token"
)

// Client makes requests to the Yandex OAuth server.  A Client is immutable
// and safe for concurrent use.
type Client struct {
	config       *Config
	oauth2Config oauth2.Config
	httpClient   *http.Client
	logger       hclog.Logger
}

// NewClient creates a Client from a copy of the config.
func NewClient(c *Config) (*Client, error) {
	const op = "NewClient"
	if c == nil {
		return nil, fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: config is invalid: %w", op, err)
	}
	conf := c.clone()
	hc, err := conf.HttpClient()
	if err != nil {
		return nil, fmt.Errorf("%s: unable to create http client: %w", op, err)
	}
	return &Client{
		config:       conf,
		oauth2Config: conf.oauth2Config(),
		httpClient:   hc,
		logger:       conf.Logger,
	}, nil
}

// AuthURL will generate a URL the caller can use to kick off an authorization
// code flow.  No request is made.
//
// Supported options:
//   - WithResponseType
//   - WithState
//   - WithScopes
//   - WithOptionalScopes
//   - WithDeviceID
//   - WithDeviceName
//   - WithLoginHint
//   - WithForceConfirm
//
// See: https://yandex.ru/dev/id/doc/dg/oauth/reference/auto-code-client.html
func (c *Client) AuthURL(opt ...Option) (string, error) {
	const op = "Client.AuthURL"
	opts := getAuthURLOpts(opt...)
	switch opts.withResponseType {
	case ResponseTypeCode, ResponseTypeToken:
	default:
		return "", fmt.Errorf("%s: unsupported response type %q: %w", op, opts.withResponseType, ErrInvalidParameter)
	}
	if err := validateDevice(c.logger, opts.withDeviceID, opts.withDeviceName); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	conf := c.oauth2Config
	if opts.withScopesSet {
		conf.Scopes = opts.withScopes
	}
	checkOptionalScopes(c.logger, conf.Scopes, opts.withOptionalScopes)

	params := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("response_type", string(opts.withResponseType)),
	}
	params = append(params, deviceParams(opts.withDeviceID, opts.withDeviceName)...)
	if opts.withLoginHint != "" {
		params = append(params, oauth2.SetAuthURLParam("login_hint", opts.withLoginHint))
	}
	if len(opts.withOptionalScopes) > 0 {
		params = append(params, oauth2.SetAuthURLParam("optional_scope", strings.Join(opts.withOptionalScopes, " ")))
	}
	if opts.withForceConfirm {
		params = append(params, oauth2.SetAuthURLParam("force_confirm", "1"))
	}
	return conf.AuthCodeURL(opts.withState, params...), nil
}

// Exchange will request a token from the token endpoint, using the
// authorization code received in an earlier successful authorization
// response.
//
// Supported options:
//   - WithDeviceID
//   - WithDeviceName
//
// See: https://yandex.ru/dev/id/doc/dg/oauth/reference/auto-code-client.html#auto-code-client__get-token
func (c *Client) Exchange(ctx context.Context, code string, opt ...Option) (*Token, error) {
	const op = "Client.Exchange"
	if code == "" {
		return nil, fmt.Errorf("%s: authorization code is empty: %w", op, ErrInvalidParameter)
	}
	opts := getExchangeOpts(opt...)
	if err := validateDevice(c.logger, opts.withDeviceID, opts.withDeviceName); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.logger.Debug("exchanging authorization code", "op", op)
	tk, err := c.oauth2Config.Exchange(c.clientContext(ctx), code, deviceParams(opts.withDeviceID, opts.withDeviceName)...)
	if err != nil {
		return nil, c.tokenError(op, err)
	}
	return c.token(op, tk)
}

// ExchangeDeviceCode will request a token from the token endpoint for a
// device code from Client.DeviceCode.  Until the user has entered the user
// code, the error matches ErrAuthorizationPending.  The caller decides when to
// try again, no retries are made.
//
// See: https://yandex.ru/dev/id/doc/dg/oauth/reference/simple-input-client.html
func (c *Client) ExchangeDeviceCode(ctx context.Context, deviceCode string) (*Token, error) {
	const op = "Client.ExchangeDeviceCode"
	if deviceCode == "" {
		return nil, fmt.Errorf("%s: device code is empty: %w", op, ErrInvalidParameter)
	}
	c.logger.Debug("exchanging device code", "op", op)
	tk, err := c.oauth2Config.Exchange(c.clientContext(ctx), deviceCode, oauth2.SetAuthURLParam("grant_type", "device_code"))
	if err != nil {
		return nil, c.tokenError(op, err)
	}
	return c.token(op, tk)
}

// Refresh will request a new token from the token endpoint with a refresh
// token.
//
// See: https://yandex.ru/dev/id/doc/dg/oauth/reference/refresh-client.html
func (c *Client) Refresh(ctx context.Context, refreshToken RefreshToken) (*Token, error) {
	const op = "Client.Refresh"
	if refreshToken == "" {
		return nil, fmt.Errorf("%s: refresh token is empty: %w", op, ErrInvalidParameter)
	}
	c.logger.Debug("refreshing token", "op", op)
	ts := c.oauth2Config.TokenSource(c.clientContext(ctx), &oauth2.Token{RefreshToken: string(refreshToken)})
	tk, err := ts.Token()
	if err != nil {
		return nil, c.tokenError(op, err)
	}
	return c.token(op, tk)
}

// DeviceCode requests a device code and a user code for the device flow.
//
// Supported options:
//   - WithDeviceID
//   - WithDeviceName
//   - WithScopes
//   - WithOptionalScopes
//
// See: https://yandex.ru/dev/id/doc/dg/oauth/reference/simple-input-client.html
func (c *Client) DeviceCode(ctx context.Context, opt ...Option) (*DeviceCode, error) {
	const op = "Client.DeviceCode"
	opts := getDeviceCodeOpts(opt...)
	if err := validateDevice(c.logger, opts.withDeviceID, opts.withDeviceName); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	conf := c.oauth2Config
	if opts.withScopesSet {
		conf.Scopes = opts.withScopes
	}
	checkOptionalScopes(c.logger, conf.Scopes, opts.withOptionalScopes)

	params := deviceParams(opts.withDeviceID, opts.withDeviceName)
	if len(opts.withOptionalScopes) > 0 {
		params = append(params, oauth2.SetAuthURLParam("optional_scope", strings.Join(opts.withOptionalScopes, " ")))
	}
	c.logger.Debug("requesting device code", "op", op)
	resp, err := conf.DeviceAuth(c.clientContext(ctx), params...)
	if err != nil {
		return nil, c.tokenError(op, err)
	}
	if resp.DeviceCode == "" || resp.UserCode == "" {
		return nil, fmt.Errorf("%s: device_code or user_code is missing: %w", op, ErrParse)
	}
	return &DeviceCode{
		DeviceCode:      resp.DeviceCode,
		UserCode:        resp.UserCode,
		VerificationURL: resp.VerificationURI,
		Interval:        resp.Interval,
		Expiry:          resp.Expiry,
	}, nil
}

// Revoke invalidates an access token issued for a device.  The client
// authenticates with HTTP Basic authorization.
//
// See: https://yandex.ru/dev/id/doc/dg/oauth/reference/token-invalidate.html
func (c *Client) Revoke(ctx context.Context, accessToken AccessToken) error {
	const op = "Client.Revoke"
	if accessToken == "" {
		return fmt.Errorf("%s: access token is empty: %w", op, ErrInvalidParameter)
	}
	form := url.Values{"access_token": {string(accessToken)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.endpoint(revokePath), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%s: unable to create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.config.ClientId, string(c.config.ClientSecret))

	c.logger.Debug("revoking token", "op", op)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%s: unable to read response: %w: %w", op, ErrNetwork, err)
	}
	_, hasError := parseErrorBody(body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 || hasError {
		authErr := newAuthenticationError(resp.StatusCode, body)
		c.logError(op, authErr)
		return fmt.Errorf("%s: %w", op, authErr)
	}
	return nil
}

// clientContext carries the client's http.Client into x/oauth2.
func (c *Client) clientContext(ctx context.Context) context.Context {
	return HttpClientContext(ctx, c.httpClient)
}

func (c *Client) token(op string, tk *oauth2.Token) (*Token, error) {
	t, err := tokenFromOAuth2(tk)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid token response: %w", op, err)
	}
	return t, nil
}

// tokenError classifies an error returned by x/oauth2.
func (c *Client) tokenError(op string, err error) error {
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		authErr := fromRetrieveError(rErr)
		c.logError(op, authErr)
		return fmt.Errorf("%s: %w", op, authErr)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w: %w", op, ErrNetwork, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrParse, err)
}

func (c *Client) logError(op string, e *AuthenticationError) {
	if errors.Is(e, ErrAuthorizationPending) {
		c.logger.Debug("authorization pending", "op", op)
		return
	}
	c.logger.Error("request rejected by provider", "op", op, "status", e.StatusCode, "error", e.Code, "error_description", e.Description)
}

func deviceParams(id, name string) []oauth2.AuthCodeOption {
	var params []oauth2.AuthCodeOption
	if id != "" {
		params = append(params, oauth2.SetAuthURLParam("device_id", id))
	}
	if name != "" {
		params = append(params, oauth2.SetAuthURLParam("device_name", name))
	}
	return params
}

// authURLOptions is the set of available options for Client.AuthURL
type authURLOptions struct {
	withResponseType   ResponseType
	withState          string
	withScopes         []string
	withScopesSet      bool
	withOptionalScopes []string
	withDeviceID       string
	withDeviceName     string
	withLoginHint      string
	withForceConfirm   bool
}

func authURLDefaults() authURLOptions {
	return authURLOptions{
		withResponseType: ResponseTypeCode,
	}
}

func getAuthURLOpts(opt ...Option) authURLOptions {
	opts := authURLDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// exchangeOptions is the set of available options for Client.Exchange
type exchangeOptions struct {
	withDeviceID   string
	withDeviceName string
}

func getExchangeOpts(opt ...Option) exchangeOptions {
	opts := exchangeOptions{}
	ApplyOpts(&opts, opt...)
	return opts
}

// deviceCodeOptions is the set of available options for Client.DeviceCode
type deviceCodeOptions struct {
	withDeviceID       string
	withDeviceName     string
	withScopes         []string
	withScopesSet      bool
	withOptionalScopes []string
}

func getDeviceCodeOpts(opt ...Option) deviceCodeOptions {
	opts := deviceCodeOptions{}
	ApplyOpts(&opts, opt...)
	return opts
}

// WithResponseType provides an optional response type.  Defaults to
// ResponseTypeCode.
//
// Valid for: AuthURL
func WithResponseType(t ResponseType) Option {
	return func(o interface{}) {
		if v, ok := o.(*authURLOptions); ok {
			v.withResponseType = t
		}
	}
}

// WithState provides the "state" parameter which the provider sends back
// unchanged to the redirect URL.  See NewState.
//
// Valid for: AuthURL
func WithState(state string) Option {
	return func(o interface{}) {
		if v, ok := o.(*authURLOptions); ok {
			v.withState = state
		}
	}
}

// WithLoginHint provides the login or email of the account to log in with.
//
// Valid for: AuthURL
func WithLoginHint(hint string) Option {
	return func(o interface{}) {
		if v, ok := o.(*authURLOptions); ok {
			v.withLoginHint = hint
		}
	}
}

// WithForceConfirm asks the provider to show the consent page even if the
// user already granted access.
//
// Valid for: AuthURL
func WithForceConfirm() Option {
	return func(o interface{}) {
		if v, ok := o.(*authURLOptions); ok {
			v.withForceConfirm = true
		}
	}
}
