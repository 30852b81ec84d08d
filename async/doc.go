// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package async provides Future, the building block of the non-blocking
// clients in the oauth and identity packages. A Future runs one blocking
// call in its own goroutine and lets the caller pick up the result later.
//
// Example:
//
//	f := async.Go(ctx, func(ctx context.Context) (*oauth.Token, error) {
//		return client.Exchange(ctx, code)
//	})
//	// ... do other work ...
//	tk, err := f.Await(ctx)
package async
