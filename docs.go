// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// yandexid is a collection of packages for logging users in with Yandex ID.
//
// The oauth package runs the OAuth 2.0 flows against oauth.yandex.ru: the
// authorization URL, the code, device code and refresh token exchanges, and
// token revocation.  The identity package fetches the user info from
// login.yandex.ru as JSON, XML or a signed JWT.  The callback package provides
// the http.HandlerFunc for the authorization code redirect, and testprovider
// a local Yandex ID server for tests.
//
// Both clients have an async variant returning an async.Future per call.
package yandexid
