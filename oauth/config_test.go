package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/hashicorp/yandexid/testprovider"
)

func TestClientSecret_String(t *testing.T) {
	t.Parallel()
	t.Run("redacted", func(t *testing.T) {
		assert := assert.New(t)
		const want = RedactedClientSecret
		secret := ClientSecret("bob's phone number")
		assert.Equalf(want, secret.String(), "ClientSecret.String() = %v, want %v", secret.String(), want)
		assert.Equal(want, fmt.Sprintf("%v", secret))
	})
}

func TestClientSecret_MarshalJSON(t *testing.T) {
	t.Parallel()
	t.Run("redacted", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		want := fmt.Sprintf(`"%s"`, RedactedClientSecret)
		secret := ClientSecret("bob's phone number")
		got, err := secret.MarshalJSON()
		require.NoError(err)
		assert.Equalf([]byte(want), got, "ClientSecret.MarshalJSON() = %s, want %s", got, want)
	})
}

func TestNewConfig(t *testing.T) {
	t.Parallel()
	tp := testprovider.Start(t)
	logger := hclog.NewNullLogger()

	type args struct {
		clientId     string
		clientSecret ClientSecret
		redirectUrl  string
		opt          []Option
	}
	tests := []struct {
		name      string
		args      args
		want      *Config
		wantErr   bool
		wantIsErr error
	}{
		{
			name: "valid-with-all-valid-opts",
			args: args{
				clientId:     "YOUR_CLIENT_ID",
				clientSecret: "YOUR_CLIENT_SECRET",
				redirectUrl:  "https://YOUR_REDIRECT_URL",
				opt: []Option{
					WithScopes("login:info", "login:email", "login:info"),
					WithBaseURL(tp.Addr()),
					WithProviderCA(tp.CACert()),
					WithAuthStyle(AuthStyleInHeader),
					WithLogger(logger),
				},
			},
			want: &Config{
				ClientId:     "YOUR_CLIENT_ID",
				ClientSecret: "YOUR_CLIENT_SECRET",
				RedirectUrl:  "https://YOUR_REDIRECT_URL",
				Scopes:       []string{"login:info", "login:email"},
				BaseURL:      tp.Addr(),
				ProviderCA:   tp.CACert(),
				AuthStyle:    AuthStyleInHeader,
				Logger:       logger,
			},
		},
		{
			name: "valid-no-opts",
			args: args{
				clientId:     "YOUR_CLIENT_ID",
				clientSecret: "YOUR_CLIENT_SECRET",
				redirectUrl:  "https://YOUR_REDIRECT_URL",
			},
			want: &Config{
				ClientId:     "YOUR_CLIENT_ID",
				ClientSecret: "YOUR_CLIENT_SECRET",
				RedirectUrl:  "https://YOUR_REDIRECT_URL",
				Scopes:       []string{},
				AuthStyle:    AuthStyleInParams,
			},
		},
		{
			name: "empty-client-id",
			args: args{
				clientSecret: "YOUR_CLIENT_SECRET",
				redirectUrl:  "https://YOUR_REDIRECT_URL",
			},
			wantErr:   true,
			wantIsErr: ErrInvalidParameter,
		},
		{
			name: "empty-client-secret",
			args: args{
				clientId:    "YOUR_CLIENT_ID",
				redirectUrl: "https://YOUR_REDIRECT_URL",
			},
			wantErr:   true,
			wantIsErr: ErrInvalidParameter,
		},
		{
			name: "empty-redirect",
			args: args{
				clientId:     "YOUR_CLIENT_ID",
				clientSecret: "YOUR_CLIENT_SECRET",
			},
			wantErr:   true,
			wantIsErr: ErrInvalidParameter,
		},
		{
			name: "relative-redirect",
			args: args{
				clientId:     "YOUR_CLIENT_ID",
				clientSecret: "YOUR_CLIENT_SECRET",
				redirectUrl:  "/callback",
			},
			wantErr:   true,
			wantIsErr: ErrInvalidParameter,
		},
		{
			name: "bad-base-url-scheme",
			args: args{
				clientId:     "YOUR_CLIENT_ID",
				clientSecret: "YOUR_CLIENT_SECRET",
				redirectUrl:  "https://YOUR_REDIRECT_URL",
				opt:          []Option{WithBaseURL("ftp://oauth.yandex.ru")},
			},
			wantErr:   true,
			wantIsErr: ErrInvalidParameter,
		},
		{
			name: "bad-base-url",
			args: args{
				clientId:     "YOUR_CLIENT_ID",
				clientSecret: "YOUR_CLIENT_SECRET",
				redirectUrl:  "https://YOUR_REDIRECT_URL",
				opt:          []Option{WithBaseURL("https://%zz")},
			},
			wantErr:   true,
			wantIsErr: ErrInvalidParameter,
		},
		{
			name: "bad-ca",
			args: args{
				clientId:     "YOUR_CLIENT_ID",
				clientSecret: "YOUR_CLIENT_SECRET",
				redirectUrl:  "https://YOUR_REDIRECT_URL",
				opt:          []Option{WithProviderCA("bad-ca")},
			},
			wantErr:   true,
			wantIsErr: ErrInvalidCACert,
		},
		{
			name: "bad-auth-style",
			args: args{
				clientId:     "YOUR_CLIENT_ID",
				clientSecret: "YOUR_CLIENT_SECRET",
				redirectUrl:  "https://YOUR_REDIRECT_URL",
				opt:          []Option{WithAuthStyle(AuthStyle(42))},
			},
			wantErr:   true,
			wantIsErr: ErrInvalidParameter,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			got, err := NewConfig(tt.args.clientId, tt.args.clientSecret, tt.args.redirectUrl, tt.args.opt...)
			if tt.wantErr {
				require.Error(err)
				assert.Truef(errors.Is(err, tt.wantIsErr), "wanted \"%s\" but got \"%s\"", tt.wantIsErr, err)
				return
			}
			require.NoError(err)
			require.NotNil(got.Logger)
			if tt.want.Logger == nil {
				tt.want.Logger = got.Logger
			}
			assert.Equal(tt.want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()
	t.Run("nil", func(t *testing.T) {
		var c *Config
		err := c.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNilParameter)
	})
	t.Run("every-problem-reported", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c := &Config{BaseURL: "ftp://x", ProviderCA: "bad"}
		err := c.Validate()
		require.Error(err)
		assert.ErrorIs(err, ErrInvalidParameter)
		assert.ErrorIs(err, ErrInvalidCACert)
		for _, want := range []string{"client id is empty", "client secret is empty", "redirect URL is empty", "base URL", "CA PEM"} {
			assert.Contains(err.Error(), want)
		}
	})
	t.Run("valid", func(t *testing.T) {
		c := &Config{ClientId: "id", ClientSecret: "secret", RedirectUrl: "https://example.com"}
		assert.NoError(t, c.Validate())
	})
}

func TestConfig_oauth2Config(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		c         *Config
		wantStyle oauth2.AuthStyle
		wantBase  string
	}{
		{
			name:      "defaults",
			c:         &Config{ClientId: "id", ClientSecret: "secret", RedirectUrl: "https://example.com", Scopes: []string{"login:info"}},
			wantStyle: oauth2.AuthStyleInParams,
			wantBase:  DefaultBaseURL,
		},
		{
			name:      "header-and-trailing-slash",
			c:         &Config{ClientId: "id", ClientSecret: "secret", RedirectUrl: "https://example.com", BaseURL: "https://localhost:8443/", AuthStyle: AuthStyleInHeader},
			wantStyle: oauth2.AuthStyleInHeader,
			wantBase:  "https://localhost:8443",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			got := tt.c.oauth2Config()
			assert.Equal(tt.c.ClientId, got.ClientID)
			assert.Equal(string(tt.c.ClientSecret), got.ClientSecret)
			assert.Equal(tt.c.RedirectUrl, got.RedirectURL)
			assert.Equal(tt.c.Scopes, got.Scopes)
			assert.Equal(tt.wantBase+"/authorize", got.Endpoint.AuthURL)
			assert.Equal(tt.wantBase+"/token", got.Endpoint.TokenURL)
			assert.Equal(tt.wantBase+"/device/code", got.Endpoint.DeviceAuthURL)
			assert.Equal(tt.wantStyle, got.Endpoint.AuthStyle)
		})
	}
}

func TestConfig_clone(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	c := &Config{ClientId: "id", Scopes: []string{"login:info"}}
	cp := c.clone()
	cp.Scopes[0] = "changed"
	assert.Equal("login:info", c.Scopes[0])
	assert.NotNil(cp.Logger)
	assert.Nil(c.Logger)
}

func TestConfig_HttpClient(t *testing.T) {
	t.Parallel()
	tp := testprovider.Start(t)

	t.Run("trusts-provider-ca", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c := &Config{ProviderCA: tp.CACert()}
		client, err := c.HttpClient()
		require.NoError(err)
		resp, err := client.Get(tp.Addr() + "/missing")
		require.NoError(err)
		defer resp.Body.Close()
		assert.Equal(http.StatusNotFound, resp.StatusCode)
	})
	t.Run("bad-ca", func(t *testing.T) {
		c := &Config{ProviderCA: "bad"}
		_, err := c.HttpClient()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidCACert)
	})
	t.Run("context", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c := &Config{}
		client, err := c.HttpClient()
		require.NoError(err)
		ctx := HttpClientContext(context.Background(), client)
		got, ok := ctx.Value(oauth2.HTTPClient).(*http.Client)
		require.True(ok)
		assert.Same(client, got)
	})
}
