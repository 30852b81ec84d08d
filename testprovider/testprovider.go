// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package testprovider

import (
	"bytes"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"
	"gopkg.in/square/go-jose.v2"
	"gopkg.in/square/go-jose.v2/jwt"

	"github.com/hashicorp/yandexid/internal/strutils"
)

const (
	DefaultClientID     = "test-client-id"
	DefaultClientSecret = "5f1c8a7e0b9d4e2fa3c6b8d1e7f02a4c9b3d5e6f7a8b9c0d1e2f3a4b5c6d7e8f"
	DefaultRedirectURI  = "https://example.com/callback"
	DefaultAuthCode     = "test-auth-code"
	DefaultAccessToken  = "test-access-token"
	DefaultRefreshToken = "test-refresh-token"
	DefaultDeviceCode   = "test-device-code"
	DefaultUserCode     = "ABCD1234"
	DefaultTokenType    = "bearer"
	DefaultExpiresIn    = 31536000
)

// TestProvider is a local server that impersonates both oauth.yandex.ru and
// login.yandex.ru, which makes writing tests much easier.  Use Addr() as the
// base URL of the oauth and identity clients and CACert() as their provider
// CA.
type TestProvider struct {
	httpServer *httptest.Server
	caCert     string

	mu                   sync.Mutex
	clientID             string
	clientSecret         string
	allowedRedirectURIs  []string
	expectedAuthCode     string
	expectedRefreshToken string
	expectedDeviceCode   string
	expectedAccessToken  string
	devicePending        bool
	replyToken           map[string]interface{}
	replyUserInfo        map[string]interface{}
	userInfoStatus       int
	jwtSecret            string
	jwtLifetime          time.Duration
	lastForm             url.Values
	lastAuthorization    string

	t *testing.T
}

// Start creates a disposable TestProvider, which is stopped when the test
// finishes.
func Start(t *testing.T) *TestProvider {
	t.Helper()
	require := require.New(t)

	p := &TestProvider{
		clientID:             DefaultClientID,
		clientSecret:         DefaultClientSecret,
		allowedRedirectURIs:  []string{DefaultRedirectURI},
		expectedAuthCode:     DefaultAuthCode,
		expectedRefreshToken: DefaultRefreshToken,
		expectedDeviceCode:   DefaultDeviceCode,
		expectedAccessToken:  DefaultAccessToken,
		replyToken:           DefaultToken(),
		replyUserInfo:        DefaultUserInfo(),
		jwtLifetime:          time.Hour,
		t:                    t,
	}

	p.httpServer = httptest.NewUnstartedServer(p)
	p.httpServer.Config.ErrorLog = log.New(io.Discard, "", 0)
	p.httpServer.StartTLS()
	t.Cleanup(p.httpServer.Close)

	cert := p.httpServer.Certificate()

	var buf bytes.Buffer
	err := pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
	require.NoError(err)
	p.caCert = buf.String()

	return p
}

// DefaultToken returns the token endpoint reply used unless SetReplyToken is
// called.
func DefaultToken() map[string]interface{} {
	return map[string]interface{}{
		"access_token":  DefaultAccessToken,
		"token_type":    DefaultTokenType,
		"expires_in":    DefaultExpiresIn,
		"refresh_token": DefaultRefreshToken,
	}
}

// DefaultUserInfo returns the /info reply used unless SetReplyUserInfo is
// called.  "openid_identities" is only sent when the request asks for it.
func DefaultUserInfo() map[string]interface{} {
	return map[string]interface{}{
		"login":             "ivan",
		"id":                "1000034426",
		"client_id":         DefaultClientID,
		"psuid":             "1.AAceCw.tbHgw5DtJ9_zeqPrk-Ba2w.qPWSRC5v2t2IaksPJgnge",
		"openid_identities": []interface{}{"http://openid.yandex.ru/ivan/"},
		"default_email":     "ivan@yandex.ru",
		"emails":            []interface{}{"ivan@yandex.ru", "ivan@ya.ru"},
		"default_avatar_id": "131652443",
		"is_avatar_empty":   false,
		"birthday":          "1987-03-12",
		"first_name":        "Ivan",
		"last_name":         "Ivanov",
		"display_name":      "ivan",
		"real_name":         "Ivan Ivanov",
		"sex":               "male",
		"default_phone": map[string]interface{}{
			"id":     12345678,
			"number": "+79037659418",
		},
	}
}

// SetClientCreds configures the client credentials the provider accepts.
func (p *TestProvider) SetClientCreds(clientID, clientSecret string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clientID = clientID
	p.clientSecret = clientSecret
}

// SetAllowedRedirectURIs configures the redirect URIs accepted by /authorize
// and /token.  Defaults to DefaultRedirectURI.
func (p *TestProvider) SetAllowedRedirectURIs(uris []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.allowedRedirectURIs = uris
}

// SetExpectedAuthCode configures the code returned from /authorize and
// accepted by /token.
func (p *TestProvider) SetExpectedAuthCode(code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expectedAuthCode = code
}

// SetExpectedRefreshToken configures the refresh token accepted by /token.
func (p *TestProvider) SetExpectedRefreshToken(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expectedRefreshToken = token
}

// SetExpectedDeviceCode configures the device code returned from /device/code
// and accepted by /token.
func (p *TestProvider) SetExpectedDeviceCode(code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expectedDeviceCode = code
}

// SetDeviceAuthorizationPending makes /token answer "authorization_pending"
// for the device code grant until it's called with false.
func (p *TestProvider) SetDeviceAuthorizationPending(pending bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.devicePending = pending
}

// SetExpectedAccessToken configures the access token accepted by /info and
// /revoke_token.
func (p *TestProvider) SetExpectedAccessToken(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expectedAccessToken = token
}

// SetReplyToken configures the body of successful /token replies.
func (p *TestProvider) SetReplyToken(reply map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replyToken = reply
}

// SetReplyUserInfo configures the user info returned from /info.
func (p *TestProvider) SetReplyUserInfo(reply map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replyUserInfo = reply
}

// SetUserInfoStatus forces /info to reply with the status code.  Zero
// restores normal replies.
func (p *TestProvider) SetUserInfoStatus(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userInfoStatus = status
}

// SetJWTSecret configures the secret /info?format=jwt replies are signed with.
// Defaults to the client secret.  A "jwt_secret" request parameter takes
// precedence.
func (p *TestProvider) SetJWTSecret(secret string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jwtSecret = secret
}

// SetJWTLifetime configures the "exp" of /info?format=jwt replies relative to
// now.  A negative lifetime issues expired tokens.
func (p *TestProvider) SetJWTLifetime(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jwtLifetime = d
}

// LastForm returns the query and form parameters of the last request.
func (p *TestProvider) LastForm() url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make(url.Values, len(p.lastForm))
	for k, v := range p.lastForm {
		cp[k] = append([]string(nil), v...)
	}
	return cp
}

// LastAuthorization returns the Authorization header of the last request.
func (p *TestProvider) LastAuthorization() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastAuthorization
}

// Addr returns the current base URL for the test provider's running webserver.
func (p *TestProvider) Addr() string { return p.httpServer.URL }

// CACert returns the pem-encoded CA certificate used by the test provider's
// HTTPS server.
func (p *TestProvider) CACert() string { return p.caCert }

// HttpClient returns a client which trusts the test provider's certificate
// and doesn't follow redirects.
func (p *TestProvider) HttpClient() *http.Client {
	c := p.httpServer.Client()
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

func (p *TestProvider) writeJSON(w http.ResponseWriter, out interface{}) error {
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}

func (p *TestProvider) writeAuthErrorResponse(w http.ResponseWriter, req *http.Request, errorCode, errorMessage string) {
	qv := req.URL.Query()

	redirectURI := qv.Get("redirect_uri") +
		"?state=" + url.QueryEscape(qv.Get("state")) +
		"&error=" + url.QueryEscape(errorCode)

	if errorMessage != "" {
		redirectURI += "&error_description=" + url.QueryEscape(errorMessage)
	}

	http.Redirect(w, req, redirectURI, http.StatusFound)
}

func (p *TestProvider) writeTokenErrorResponse(w http.ResponseWriter, statusCode int, errorCode, errorMessage string) error {
	body := struct {
		Code string `json:"error"`
		Desc string `json:"error_description,omitempty"`
	}{
		Code: errorCode,
		Desc: errorMessage,
	}

	w.WriteHeader(statusCode)
	return p.writeJSON(w, &body)
}

// clientAuthenticated accepts credentials in the form body or with HTTP Basic
// authorization.
func (p *TestProvider) clientAuthenticated(req *http.Request) bool {
	id, secret, ok := req.BasicAuth()
	if ok {
		// x/oauth2 url encodes Basic credentials
		if v, err := url.QueryUnescape(id); err == nil {
			id = v
		}
		if v, err := url.QueryUnescape(secret); err == nil {
			secret = v
		}
	} else {
		id, secret = req.PostFormValue("client_id"), req.PostFormValue("client_secret")
	}
	return id == p.clientID && secret == p.clientSecret
}

// ServeHTTP implements the test provider's http.Handler.
func (p *TestProvider) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.t.Helper()

	_ = req.ParseForm()
	p.lastForm = req.Form
	p.lastAuthorization = req.Header.Get("Authorization")

	w.Header().Set("Content-Type", "application/json")

	switch req.URL.Path {
	case "/authorize":
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		qv := req.URL.Query()

		redirectURI := qv.Get("redirect_uri")
		if !strutils.StrListContains(p.allowedRedirectURIs, redirectURI) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if qv.Get("client_id") != p.clientID {
			p.writeAuthErrorResponse(w, req, "invalid_client", "")
			return
		}
		state := qv.Get("state")
		switch qv.Get("response_type") {
		case "code":
			http.Redirect(w, req, redirectURI+"?state="+url.QueryEscape(state)+"&code="+url.QueryEscape(p.expectedAuthCode), http.StatusFound)
		case "token":
			fragment := url.Values{
				"access_token": {p.expectedAccessToken},
				"token_type":   {DefaultTokenType},
				"expires_in":   {strconv.Itoa(DefaultExpiresIn)},
				"state":        {state},
			}
			http.Redirect(w, req, redirectURI+"#"+fragment.Encode(), http.StatusFound)
		default:
			p.writeAuthErrorResponse(w, req, "unsupported_response_type", "")
		}

	case "/token":
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !p.clientAuthenticated(req) {
			_ = p.writeTokenErrorResponse(w, http.StatusUnauthorized, "invalid_client", "Client not found")
			return
		}
		switch req.PostFormValue("grant_type") {
		case "authorization_code":
			switch {
			case req.PostFormValue("redirect_uri") != "" && !strutils.StrListContains(p.allowedRedirectURIs, req.PostFormValue("redirect_uri")):
				_ = p.writeTokenErrorResponse(w, http.StatusBadRequest, "invalid_request", "redirect_uri is not allowed")
				return
			case req.PostFormValue("code") != p.expectedAuthCode:
				_ = p.writeTokenErrorResponse(w, http.StatusBadRequest, "bad_verification_code", "Invalid code")
				return
			}
		case "refresh_token":
			if req.PostFormValue("refresh_token") != p.expectedRefreshToken {
				_ = p.writeTokenErrorResponse(w, http.StatusBadRequest, "invalid_grant", "Invalid refresh token")
				return
			}
		case "device_code":
			switch {
			case req.PostFormValue("code") != p.expectedDeviceCode:
				_ = p.writeTokenErrorResponse(w, http.StatusBadRequest, "bad_verification_code", "Invalid code")
				return
			case p.devicePending:
				_ = p.writeTokenErrorResponse(w, http.StatusBadRequest, "authorization_pending", "User has not yet authorized your application")
				return
			}
		default:
			_ = p.writeTokenErrorResponse(w, http.StatusBadRequest, "unsupported_grant_type", "")
			return
		}
		_ = p.writeJSON(w, p.replyToken)

	case "/device/code":
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if req.PostFormValue("client_id") != p.clientID {
			_ = p.writeTokenErrorResponse(w, http.StatusBadRequest, "invalid_client", "Client not found")
			return
		}
		reply := struct {
			DeviceCode      string `json:"device_code"`
			UserCode        string `json:"user_code"`
			VerificationURL string `json:"verification_url"`
			Interval        int    `json:"interval"`
			ExpiresIn       int    `json:"expires_in"`
		}{
			DeviceCode:      p.expectedDeviceCode,
			UserCode:        DefaultUserCode,
			VerificationURL: "https://ya.ru/device",
			Interval:        5,
			ExpiresIn:       300,
		}
		_ = p.writeJSON(w, &reply)

	case "/revoke_token":
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id, secret, ok := req.BasicAuth()
		if !ok || id != p.clientID || secret != p.clientSecret {
			_ = p.writeTokenErrorResponse(w, http.StatusUnauthorized, "invalid_client", "Client not found")
			return
		}
		if req.PostFormValue("access_token") != p.expectedAccessToken {
			_ = p.writeTokenErrorResponse(w, http.StatusBadRequest, "invalid_grant", "Invalid token")
			return
		}
		_ = p.writeJSON(w, map[string]string{"status": "ok"})

	case "/info":
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if p.userInfoStatus != 0 {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(p.userInfoStatus)
			_, _ = fmt.Fprintf(w, "%d %s", p.userInfoStatus, http.StatusText(p.userInfoStatus))
			return
		}
		if req.Header.Get("Authorization") != "OAuth "+p.expectedAccessToken {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("401 Unauthorized"))
			return
		}
		info := make(map[string]interface{}, len(p.replyUserInfo))
		for k, v := range p.replyUserInfo {
			info[k] = v
		}
		if req.FormValue("with_openid_identity") != "1" {
			delete(info, "openid_identities")
		}
		switch req.FormValue("format") {
		case "", "json":
			_ = p.writeJSON(w, info)
		case "xml":
			w.Header().Set("Content-Type", "application/xml")
			_, _ = userInfoXML(info).WriteTo(w)
		case "jwt":
			secret := p.clientSecret
			if p.jwtSecret != "" {
				secret = p.jwtSecret
			}
			if s := req.FormValue("jwt_secret"); s != "" {
				secret = s
			}
			now := time.Now()
			info["iat"] = now.Unix()
			info["exp"] = now.Add(p.jwtLifetime).Unix()
			w.Header().Set("Content-Type", "application/jwt")
			_, _ = w.Write([]byte(TestSignHS256(p.t, secret, info)))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// userInfoXML renders the user info as a <user> document.  Lists become
// repeated <item> children and objects nested elements.
func userInfoXML(info map[string]interface{}) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	addXMLChildren(doc.CreateElement("user"), info)
	doc.Indent(2)
	return doc
}

func addXMLChildren(parent *etree.Element, m map[string]interface{}) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		addXMLValue(parent.CreateElement(k), m[k])
	}
}

func addXMLValue(el *etree.Element, v interface{}) {
	switch v := v.(type) {
	case nil:
	case map[string]interface{}:
		addXMLChildren(el, v)
	case []interface{}:
		for _, item := range v {
			addXMLValue(el.CreateElement("item"), item)
		}
	case []string:
		for _, item := range v {
			el.CreateElement("item").SetText(item)
		}
	default:
		el.SetText(fmt.Sprint(v))
	}
}

// TestSignHS256 signs the claims as a compact JWT with the HS256 secret.
func TestSignHS256(t *testing.T, secret string, claims map[string]interface{}) string {
	t.Helper()
	require := require.New(t)
	require.NotEmpty(secret)

	sig, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: []byte(secret)},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	require.NoError(err)

	raw, err := jwt.Signed(sig).Claims(claims).CompactSerialize()
	require.NoError(err)
	return raw
}

// TestSignHS512 signs the claims with HS512, for tests rejecting any
// algorithm other than HS256.
func TestSignHS512(t *testing.T, secret string, claims map[string]interface{}) string {
	t.Helper()
	require := require.New(t)
	require.NotEmpty(secret)

	sig, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS512, Key: []byte(secret)},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	require.NoError(err)

	raw, err := jwt.Signed(sig).Claims(claims).CompactSerialize()
	require.NoError(err)
	return raw
}
