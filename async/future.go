// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package async

import (
	"context"
	"errors"
)

// ErrNilFunc is returned by Await when the Future was started without a
// function to run.
var ErrNilFunc = errors.New("nil func")

// Future is the pending result of a call started with Go.  It is safe to Await
// a Future from multiple goroutines; each of them gets the same result.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go starts fn in a new goroutine and returns a Future for its result.  The
// ctx is handed to fn unchanged, so cancelling it cancels the call itself.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	if fn == nil {
		f.err = ErrNilFunc
		close(f.done)
		return f
	}
	go func() {
		defer close(f.done)
		f.val, f.err = fn(ctx)
	}()
	return f
}

// Done returns a channel which is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is available or ctx is done.  When ctx ends
// first, the ctx error is returned and the call keeps running; a later
// Await still gets its result.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
