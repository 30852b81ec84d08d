// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

/*
Package oauth is a client for the Yandex ID OAuth server (oauth.yandex.ru).

It builds authorization URLs and exchanges authorization codes, device codes
and refresh tokens for access tokens.  It can also request device codes and
revoke access tokens.

Client makes its requests on the calling goroutine.  AsyncClient offers the
same operations, each returning an async.Future.

Example:

	c, err := oauth.NewConfig(clientID, clientSecret, "https://example.com/callback",
		oauth.WithScopes("login:info", "login:email"),
	)
	if err != nil {
		// handle error
	}
	client, err := oauth.NewClient(c)
	if err != nil {
		// handle error
	}
	state, _ := oauth.NewState()
	authURL, err := client.AuthURL(oauth.WithState(state))
	// ... redirect the user to authURL and read "code" from the callback ...
	tk, err := client.Exchange(ctx, code)

See: https://yandex.ru/dev/id/doc/dg/oauth/concepts/about.html
*/
package oauth
