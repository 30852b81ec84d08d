// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// requiredUserFields are always sent, whatever the token's scopes.
var requiredUserFields = []string{"login", "id", "client_id", "psuid"}

// User is the user info returned by login.yandex.ru.  Optional fields are
// only sent when the token has the matching scope.
type User struct {
	Login    string `json:"login"`
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	PSUID    string `json:"psuid"`

	// OpenIDIdentities needs WithOpenIDIdentity.
	OpenIDIdentities []string `json:"openid_identities,omitempty"`

	// login:email
	DefaultEmail string   `json:"default_email,omitempty"`
	Emails       []string `json:"emails,omitempty"`

	// login:avatar
	DefaultAvatarID string `json:"default_avatar_id,omitempty"`
	IsAvatarEmpty   *bool  `json:"is_avatar_empty,omitempty"`

	// login:birthday
	Birthday Birthday `json:"birthday,omitempty"`

	// login:info
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	RealName    string `json:"real_name,omitempty"`
	Sex         Sex    `json:"sex,omitempty"`

	// login:default_phone
	DefaultPhone *Phone `json:"default_phone,omitempty"`
}

// AvatarURL returns the URL of the user's avatar, or "" if the user has no
// avatar id.
func (u *User) AvatarURL(size AvatarSize) string {
	if u.DefaultAvatarID == "" {
		return ""
	}
	return AvatarURL(u.DefaultAvatarID, size)
}

// Phone is the user's default phone number.
type Phone struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
}

// Sex of the user.  The empty Sex means unknown.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// UnmarshalJSON accepts "male", "female" and null.
func (s *Sex) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch Sex(v) {
	case SexMale, SexFemale:
		*s = Sex(v)
		return nil
	default:
		return fmt.Errorf("unsupported sex %q", v)
	}
}

// Birthday as sent by the provider, in YYYY-MM-DD form.  The user may hide
// parts of it, which are then zeros, like "0000-12-23".
type Birthday string

const birthdayLayout = "2006-01-02"

// Time parses the birthday.  Dates with hidden parts fail with
// ErrInvalidBirthday.
func (b Birthday) Time() (time.Time, error) {
	const op = "Birthday.Time"
	t, err := time.Parse(birthdayLayout, string(b))
	if err != nil || t.Year() == 0 {
		return time.Time{}, fmt.Errorf("%s: %q: %w", op, string(b), ErrInvalidBirthday)
	}
	return t, nil
}

// UnmarshalJSON treats null as no birthday.
func (b *Birthday) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*b = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = Birthday(v)
	return nil
}

// parseUser decodes a JSON user info.  Required fields must be present, but
// may be empty.
func parseUser(data []byte) (*User, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("user info is not a JSON object: %w: %w", ErrParse, err)
	}
	for _, name := range requiredUserFields {
		if _, ok := fields[name]; !ok {
			return nil, fmt.Errorf("user info has no %q: %w", name, ErrParse)
		}
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("invalid user info: %w: %w", ErrParse, err)
	}
	return &u, nil
}
