// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

/*
callback is a package that provides a callback (in the form of http.HandlerFunc)
for handling the Yandex ID response to an authorization code flow.
*/
package callback
