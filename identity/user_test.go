package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseUser(t *testing.T) {
	t.Parallel()
	notEmpty := false
	tests := []struct {
		name      string
		data      string
		want      *User
		wantIsErr error
	}{
		{
			name: "required-only",
			data: `{"login":"ivan","id":"1","client_id":"c","psuid":"p"}`,
			want: &User{Login: "ivan", ID: "1", ClientID: "c", PSUID: "p"},
		},
		{
			name: "required-may-be-empty",
			data: `{"login":"","id":"","client_id":"","psuid":""}`,
			want: &User{},
		},
		{
			name: "all-fields",
			data: `{
				"login":"ivan","id":"1","client_id":"c","psuid":"p",
				"openid_identities":["http://openid.yandex.ru/ivan/"],
				"default_email":"ivan@yandex.ru","emails":["ivan@yandex.ru"],
				"default_avatar_id":"131652443","is_avatar_empty":false,
				"birthday":"0000-12-23",
				"first_name":"Ivan","last_name":"Ivanov","display_name":"ivan","real_name":"Ivan Ivanov",
				"sex":"female",
				"default_phone":{"id":12345678,"number":"+79037659418"},
				"unknown_field":"ignored"
			}`,
			want: &User{
				Login:            "ivan",
				ID:               "1",
				ClientID:         "c",
				PSUID:            "p",
				OpenIDIdentities: []string{"http://openid.yandex.ru/ivan/"},
				DefaultEmail:     "ivan@yandex.ru",
				Emails:           []string{"ivan@yandex.ru"},
				DefaultAvatarID:  "131652443",
				IsAvatarEmpty:    &notEmpty,
				Birthday:         "0000-12-23",
				FirstName:        "Ivan",
				LastName:         "Ivanov",
				DisplayName:      "ivan",
				RealName:         "Ivan Ivanov",
				Sex:              SexFemale,
				DefaultPhone:     &Phone{ID: 12345678, Number: "+79037659418"},
			},
		},
		{
			name: "nulls",
			data: `{"login":"ivan","id":"1","client_id":"c","psuid":"p","sex":null,"birthday":null,"default_phone":null}`,
			want: &User{Login: "ivan", ID: "1", ClientID: "c", PSUID: "p"},
		},
		{
			name:      "missing-psuid",
			data:      `{"login":"ivan","id":"1","client_id":"c"}`,
			wantIsErr: ErrParse,
		},
		{
			name:      "missing-login",
			data:      `{"id":"1","client_id":"c","psuid":"p"}`,
			wantIsErr: ErrParse,
		},
		{
			name:      "bad-sex",
			data:      `{"login":"ivan","id":"1","client_id":"c","psuid":"p","sex":"woman"}`,
			wantIsErr: ErrParse,
		},
		{
			name:      "id-is-number",
			data:      `{"login":"ivan","id":1,"client_id":"c","psuid":"p"}`,
			wantIsErr: ErrParse,
		},
		{
			name:      "phone-id-is-string",
			data:      `{"login":"ivan","id":"1","client_id":"c","psuid":"p","default_phone":{"id":"x","number":"1"}}`,
			wantIsErr: ErrParse,
		},
		{
			name:      "not-an-object",
			data:      `["ivan"]`,
			wantIsErr: ErrParse,
		},
		{
			name:      "not-json",
			data:      `<user/>`,
			wantIsErr: ErrParse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			got, err := parseUser([]byte(tt.data))
			if tt.wantIsErr != nil {
				require.Error(err)
				assert.Truef(errors.Is(err, tt.wantIsErr), "wanted \"%s\" but got \"%s\"", tt.wantIsErr, err)
				return
			}
			require.NoError(err)
			assert.Equal(tt.want, got)
		})
	}
}

func TestBirthday_Time(t *testing.T) {
	t.Parallel()
	tests := []struct {
		birthday Birthday
		want     time.Time
		wantErr  bool
	}{
		{birthday: "1987-03-12", want: time.Date(1987, time.March, 12, 0, 0, 0, 0, time.UTC)},
		{birthday: "0000-12-23", wantErr: true},
		{birthday: "1987-00-00", wantErr: true},
		{birthday: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(string(tt.birthday), func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			got, err := tt.birthday.Time()
			if tt.wantErr {
				require.Error(err)
				assert.ErrorIs(err, ErrInvalidBirthday)
				return
			}
			require.NoError(err)
			assert.True(tt.want.Equal(got))
		})
	}
}
