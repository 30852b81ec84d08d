// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

/*
Package identity fetches information about a Yandex ID user from
login.yandex.ru with an access token issued by package oauth.

The user info is available as a User (JSON format), as raw JSON, as an XML
document and as a JWT, either unverified or verified with the application's
client secret.

Example:

	c, err := identity.NewClient(tk.AccessToken)
	if err != nil {
		// handle error
	}
	u, err := c.UserInfo(ctx)
	if err != nil {
		// handle error
	}
	fmt.Println(u.Login, u.AvatarURL(identity.AvatarIslands200))

See: https://yandex.ru/dev/id/doc/dg/api-id/concepts/adoption.html
*/
package identity
