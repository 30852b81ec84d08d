// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/beevik/etree"

	"github.com/hashicorp/yandexid/async"
	"github.com/hashicorp/yandexid/oauth"
)

// AsyncClient has the same operations as Client, each returning an
// async.Future.
type AsyncClient struct {
	client *Client
}

// NewAsyncClient creates an AsyncClient for the access token.  It supports
// the options of NewClient.
func NewAsyncClient(accessToken oauth.AccessToken, opt ...Option) (*AsyncClient, error) {
	const op = "NewAsyncClient"
	client, err := NewClient(accessToken, opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AsyncClient{client: client}, nil
}

// Client returns the blocking Client the AsyncClient delegates to.
func (a *AsyncClient) Client() *Client {
	return a.client
}

func (a *AsyncClient) UserInfo(ctx context.Context, opt ...Option) *async.Future[*User] {
	return async.Go(ctx, func(ctx context.Context) (*User, error) {
		return a.client.UserInfo(ctx, opt...)
	})
}

func (a *AsyncClient) UserInfoJSON(ctx context.Context, opt ...Option) *async.Future[json.RawMessage] {
	return async.Go(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return a.client.UserInfoJSON(ctx, opt...)
	})
}

func (a *AsyncClient) UserInfoXML(ctx context.Context, opt ...Option) *async.Future[*etree.Document] {
	return async.Go(ctx, func(ctx context.Context) (*etree.Document, error) {
		return a.client.UserInfoXML(ctx, opt...)
	})
}

func (a *AsyncClient) UserInfoJWT(ctx context.Context, opt ...Option) *async.Future[string] {
	return async.Go(ctx, func(ctx context.Context) (string, error) {
		return a.client.UserInfoJWT(ctx, opt...)
	})
}

func (a *AsyncClient) UserInfoClaims(ctx context.Context, clientSecret oauth.ClientSecret, opt ...Option) *async.Future[map[string]interface{}] {
	return async.Go(ctx, func(ctx context.Context) (map[string]interface{}, error) {
		return a.client.UserInfoClaims(ctx, clientSecret, opt...)
	})
}
