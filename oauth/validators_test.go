package oauth

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDeviceID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "min-length", id: "abc123"},
		{name: "max-length", id: strings.Repeat("a", 50)},
		{name: "cyrillic", id: "устройство1"},
		{name: "too-short", id: "abc12", wantErr: true},
		{name: "too-long", id: strings.Repeat("a", 51), wantErr: true},
		{name: "dash", id: "abc-123", wantErr: true},
		{name: "space", id: "abc 123", wantErr: true},
		{name: "empty", id: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			err := ValidateDeviceID(tt.id)
			if tt.wantErr {
				require.Error(err)
				assert.Truef(errors.Is(err, ErrInvalidDeviceID), "wanted \"%s\" but got \"%s\"", ErrInvalidDeviceID, err)
				assert.ErrorIs(err, ErrInvalidParameter)
				return
			}
			assert.NoError(err)
		})
	}
}

func TestValidateDeviceName(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	assert.NoError(ValidateDeviceName(""))
	assert.NoError(ValidateDeviceName(strings.Repeat("я", 100)))
	err := ValidateDeviceName(strings.Repeat("я", 101))
	assert.ErrorIs(err, ErrInvalidDeviceName)
	assert.ErrorIs(err, ErrInvalidParameter)
}

func testLogger(buf *bytes.Buffer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Output: buf,
		Level:  hclog.Trace,
	})
}

func Test_validateDevice(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		id       string
		devName  string
		wantErr  error
		wantWarn string
	}{
		{name: "none"},
		{name: "both", id: "abc123", devName: "phone"},
		{name: "id-only", id: "abc123", wantWarn: "device_name is not"},
		{name: "name-only", devName: "phone", wantWarn: "device_id is not"},
		{name: "bad-id", id: "a", devName: "phone", wantErr: ErrInvalidDeviceID},
		{name: "bad-name", id: "abc123", devName: strings.Repeat("x", 101), wantErr: ErrInvalidDeviceName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			var buf bytes.Buffer
			err := validateDevice(testLogger(&buf), tt.id, tt.devName)
			if tt.wantErr != nil {
				require.Error(err)
				assert.ErrorIs(err, tt.wantErr)
				return
			}
			require.NoError(err)
			if tt.wantWarn == "" {
				assert.Empty(buf.String())
				return
			}
			assert.Contains(buf.String(), "[WARN]")
			assert.Contains(buf.String(), tt.wantWarn)
		})
	}
}

func Test_checkOptionalScopes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		scopes   []string
		optional []string
		wantWarn bool
	}{
		{name: "no-scopes", optional: []string{"login:email"}},
		{name: "no-optional", scopes: []string{"login:info"}},
		{name: "subset", scopes: []string{"login:info", "login:email"}, optional: []string{"login:email"}},
		{name: "missing", scopes: []string{"login:info"}, optional: []string{"login:email"}, wantWarn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			var buf bytes.Buffer
			checkOptionalScopes(testLogger(&buf), tt.scopes, tt.optional)
			if tt.wantWarn {
				assert.Contains(buf.String(), "optional scopes are not in scope")
				assert.Contains(buf.String(), "login:email")
				return
			}
			assert.Empty(buf.String())
		})
	}
}
