// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"context"
	"fmt"

	"github.com/hashicorp/yandexid/async"
)

// AsyncClient has the same operations as Client, but the requests run in
// their own goroutine and return an async.Future.  Results and errors are the
// ones Client returns for the same inputs.
type AsyncClient struct {
	client *Client
}

// NewAsyncClient creates an AsyncClient from a copy of the config.
func NewAsyncClient(c *Config) (*AsyncClient, error) {
	const op = "NewAsyncClient"
	client, err := NewClient(c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AsyncClient{client: client}, nil
}

// Client returns the blocking Client the AsyncClient delegates to.
func (a *AsyncClient) Client() *Client {
	return a.client
}

// AuthURL makes no request, so it doesn't return a Future.  See
// Client.AuthURL.
func (a *AsyncClient) AuthURL(opt ...Option) (string, error) {
	return a.client.AuthURL(opt...)
}

// Exchange see Client.Exchange
func (a *AsyncClient) Exchange(ctx context.Context, code string, opt ...Option) *async.Future[*Token] {
	return async.Go(ctx, func(ctx context.Context) (*Token, error) {
		return a.client.Exchange(ctx, code, opt...)
	})
}

// ExchangeDeviceCode see Client.ExchangeDeviceCode
func (a *AsyncClient) ExchangeDeviceCode(ctx context.Context, deviceCode string) *async.Future[*Token] {
	return async.Go(ctx, func(ctx context.Context) (*Token, error) {
		return a.client.ExchangeDeviceCode(ctx, deviceCode)
	})
}

// Refresh see Client.Refresh
func (a *AsyncClient) Refresh(ctx context.Context, refreshToken RefreshToken) *async.Future[*Token] {
	return async.Go(ctx, func(ctx context.Context) (*Token, error) {
		return a.client.Refresh(ctx, refreshToken)
	})
}

// DeviceCode see Client.DeviceCode
func (a *AsyncClient) DeviceCode(ctx context.Context, opt ...Option) *async.Future[*DeviceCode] {
	return async.Go(ctx, func(ctx context.Context) (*DeviceCode, error) {
		return a.client.DeviceCode(ctx, opt...)
	})
}

// Revoke see Client.Revoke
func (a *AsyncClient) Revoke(ctx context.Context, accessToken AccessToken) *async.Future[struct{}] {
	return async.Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.client.Revoke(ctx, accessToken)
	})
}
