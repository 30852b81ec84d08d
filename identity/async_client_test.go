package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/yandexid/oauth"
	"github.com/hashicorp/yandexid/testprovider"
)

func TestNewAsyncClient(t *testing.T) {
	t.Parallel()
	_, err := NewAsyncClient("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	ac, err := NewAsyncClient("token")
	require.NoError(t, err)
	assert.NotNil(t, ac.Client())
}

// TestAsyncClient_parity checks the async client returns exactly what the
// blocking client returns.
func TestAsyncClient_parity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tp := testprovider.Start(t)
	opts := []Option{WithBaseURL(tp.Addr()), WithProviderCA(tp.CACert())}

	for _, token := range []string{testprovider.DefaultAccessToken, "wrong-token"} {
		token := token
		t.Run(token, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			c, err := NewClient(oauth.AccessToken(token), opts...)
			require.NoError(err)
			ac, err := NewAsyncClient(oauth.AccessToken(token), opts...)
			require.NoError(err)

			wantUser, wantErr := c.UserInfo(ctx, WithOpenIDIdentity())
			gotUser, gotErr := ac.UserInfo(ctx, WithOpenIDIdentity()).Await(ctx)
			assert.Equal(wantUser, gotUser)
			assert.Equal(errString(wantErr), errString(gotErr))

			wantJSON, wantErr := c.UserInfoJSON(ctx)
			gotJSON, gotErr := ac.UserInfoJSON(ctx).Await(ctx)
			assert.Equal(wantJSON, gotJSON)
			assert.Equal(errString(wantErr), errString(gotErr))

			wantDoc, wantErr := c.UserInfoXML(ctx)
			gotDoc, gotErr := ac.UserInfoXML(ctx).Await(ctx)
			assert.Equal(errString(wantErr), errString(gotErr))
			if wantDoc != nil {
				require.NotNil(gotDoc)
				wantXML, err := wantDoc.WriteToString()
				require.NoError(err)
				gotXML, err := gotDoc.WriteToString()
				require.NoError(err)
				assert.Equal(wantXML, gotXML)
			}

			wantClaims, wantErr := c.UserInfoClaims(ctx, testprovider.DefaultClientSecret)
			gotClaims, gotErr := ac.UserInfoClaims(ctx, testprovider.DefaultClientSecret).Await(ctx)
			assert.Equal(errString(wantErr), errString(gotErr))
			if wantClaims != nil {
				// iat and exp differ between the two requests
				for _, k := range []string{"iat", "exp"} {
					delete(wantClaims, k)
					delete(gotClaims, k)
				}
			}
			assert.Equal(wantClaims, gotClaims)

			_, wantErr = c.UserInfoJWT(ctx)
			_, gotErr = ac.UserInfoJWT(ctx).Await(ctx)
			assert.Equal(errString(wantErr), errString(gotErr))
		})
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
