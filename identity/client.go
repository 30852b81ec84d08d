// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"
	"golang.org/x/oauth2"
	"gopkg.in/square/go-jose.v2"
	"gopkg.in/square/go-jose.v2/jwt"

	"github.com/hashicorp/yandexid/internal/httpclient"
	"github.com/hashicorp/yandexid/internal/strutils"
	"github.com/hashicorp/yandexid/oauth"
)

const (
	infoPath = "/info"

	// maxResponseSize bounds the user info bodies read.
	maxResponseSize = 1 << 20
)

// Format of the user info response.
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatJWT  Format = "jwt"
)

// Client requests user info for one access token.  A Client is immutable and
// safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     hclog.Logger
	clock      clockwork.Clock
}

// NewClient creates a Client for the access token.
//
// Supported options:
//   - WithBaseURL
//   - WithProviderCA
//   - WithLogger
//   - WithClock
func NewClient(accessToken oauth.AccessToken, opt ...Option) (*Client, error) {
	const op = "NewClient"
	if accessToken == "" {
		return nil, fmt.Errorf("%s: access token is empty: %w", op, ErrInvalidParameter)
	}
	opts := getClientOpts(opt...)
	u, err := url.Parse(opts.withBaseURL)
	switch {
	case err != nil:
		return nil, fmt.Errorf("%s: base URL %q is invalid: %w", op, opts.withBaseURL, ErrInvalidParameter)
	case !strutils.StrListContains([]string{"https", "http"}, u.Scheme) || u.Host == "":
		return nil, fmt.Errorf("%s: base URL %q schema is not http or https: %w", op, opts.withBaseURL, ErrInvalidParameter)
	}
	base, err := httpclient.New(opts.withProviderCA)
	if err != nil {
		if errors.Is(err, httpclient.ErrInvalidCertificatePem) {
			return nil, fmt.Errorf("%s: could not parse CA PEM value: %w", op, ErrInvalidCACert)
		}
		return nil, fmt.Errorf("%s: could not get an http client: %w", op, err)
	}
	// The transport adds "Authorization: OAuth <token>" to every request.
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: string(accessToken),
		TokenType:   "OAuth",
	})
	hc := oauth2.NewClient(httpclient.ClientContext(context.Background(), base), ts)

	return &Client{
		baseURL:    strings.TrimSuffix(opts.withBaseURL, "/"),
		httpClient: hc,
		logger:     opts.withLogger,
		clock:      opts.withClock,
	}, nil
}

// UserInfo returns the user info in JSON format mapped to a User.
//
// Supported options:
//   - WithOpenIDIdentity
func (c *Client) UserInfo(ctx context.Context, opt ...Option) (*User, error) {
	const op = "Client.UserInfo"
	body, err := c.get(ctx, FormatJSON, getRequestOpts(opt...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u, err := parseUser(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UserInfoJSON returns the user info in JSON format, unchanged.
//
// Supported options:
//   - WithOpenIDIdentity
func (c *Client) UserInfoJSON(ctx context.Context, opt ...Option) (json.RawMessage, error) {
	const op = "Client.UserInfoJSON"
	body, err := c.get(ctx, FormatJSON, getRequestOpts(opt...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s: response is not JSON: %w", op, ErrParse)
	}
	return json.RawMessage(body), nil
}

// UserInfoXML returns the user info in XML format.  The document isn't
// validated against a schema.
//
// Supported options:
//   - WithOpenIDIdentity
func (c *Client) UserInfoXML(ctx context.Context, opt ...Option) (*etree.Document, error) {
	const op = "Client.UserInfoXML"
	body, err := c.get(ctx, FormatXML, getRequestOpts(opt...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("%s: response is not XML: %w: %w", op, ErrParse, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%s: response has no root element: %w", op, ErrParse)
	}
	return doc, nil
}

// UserInfoJWT returns the user info in JWT format.  The signature is not
// verified, see UserInfoClaims.
//
// Supported options:
//   - WithOpenIDIdentity
//   - WithJWTSecret
func (c *Client) UserInfoJWT(ctx context.Context, opt ...Option) (string, error) {
	const op = "Client.UserInfoJWT"
	body, err := c.get(ctx, FormatJWT, getRequestOpts(opt...))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	raw := string(bytes.TrimSpace(body))
	if strings.Count(raw, ".") != 2 {
		return "", fmt.Errorf("%s: response is not a compact JWT: %w", op, ErrParse)
	}
	return raw, nil
}

// UserInfoClaims returns the claims of the user info JWT after verifying its
// HS256 signature and its "exp" and "iat" claims.  The key is the client
// secret, unless WithJWTSecret is used: the JWT secret is the key then and
// clientSecret may be empty.
//
// Supported options:
//   - WithOpenIDIdentity
//   - WithJWTSecret
func (c *Client) UserInfoClaims(ctx context.Context, clientSecret oauth.ClientSecret, opt ...Option) (map[string]interface{}, error) {
	const op = "Client.UserInfoClaims"
	opts := getRequestOpts(opt...)
	key := string(clientSecret)
	if opts.withJWTSecret != "" {
		key = opts.withJWTSecret
	}
	if key == "" {
		return nil, fmt.Errorf("%s: client secret or jwt secret is required: %w", op, ErrInvalidParameter)
	}
	raw, err := c.UserInfoJWT(ctx, opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, err := c.verify(raw, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return claims, nil
}

func (c *Client) verify(raw string, key []byte) (map[string]interface{}, error) {
	tok, err := jwt.ParseSigned(raw)
	if err != nil {
		return nil, fmt.Errorf("unable to parse jwt: %w: %w", ErrParse, err)
	}
	if len(tok.Headers) != 1 || tok.Headers[0].Algorithm != string(jose.HS256) {
		return nil, fmt.Errorf("jwt is not signed with %s: %w", jose.HS256, ErrInvalidSignature)
	}
	var std jwt.Claims
	claims := map[string]interface{}{}
	if err := tok.Claims(key, &std, &claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	switch err := std.ValidateWithLeeway(jwt.Expected{Time: c.clock.Now()}, jwt.DefaultLeeway); {
	case err == nil:
	case errors.Is(err, jwt.ErrExpired):
		return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrTokenNotValidYet, err)
	}
	return claims, nil
}

// get requests the user info in format and returns the body of a 2xx
// response.
func (c *Client) get(ctx context.Context, format Format, opts requestOptions) ([]byte, error) {
	const op = "Client.get"
	q := url.Values{"format": {string(format)}}
	if opts.withOpenIDIdentity {
		q.Set("with_openid_identity", "1")
	}
	if opts.withJWTSecret != "" {
		if format == FormatJWT {
			c.logger.Warn("using jwt_secret is not recommended for security reasons")
			q.Set("jwt_secret", opts.withJWTSecret)
		} else {
			c.logger.Warn("jwt_secret is ignored", "format", string(format))
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+infoPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to create request: %w", op, err)
	}

	c.logger.Debug("requesting user info", "op", op, "format", string(format))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%s: unable to read response: %w: %w", op, ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		sErr := &StatusError{StatusCode: resp.StatusCode, Body: body}
		c.logger.Error("user info request failed", "op", op, "status", resp.StatusCode)
		return nil, fmt.Errorf("%s: %w", op, sErr)
	}
	return body, nil
}
