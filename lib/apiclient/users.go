// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/segmento/resolve/lib/schema/ticket"
)

// LoginResult is the service's answer to a successful login.
type LoginResult struct {
	Token string      `json:"token"`
	User  ticket.User `json:"user"`
}

// Login exchanges credentials for a bearer token. It does not change
// the client's own token; callers persist the result and call
// [Client.SetToken].
func (c *Client) Login(ctx context.Context, form ticket.LoginForm) (*LoginResult, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var result LoginResult
	request := c.newRequest(ctx).SetBody(form)
	if err := c.do(request, http.MethodPost, "/api/auth/login", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a user account.
func (c *Client) Register(ctx context.Context, form ticket.RegisterForm) (*ticket.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var created ticket.User
	request := c.newRequest(ctx).SetBody(form)
	if err := c.do(request, http.MethodPost, "/api/users", &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Users lists every account.
func (c *Client) Users(ctx context.Context) ([]ticket.User, error) {
	var users []ticket.User
	if err := c.Get(ctx, "/api/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateRole changes a user's role. The returned user is nil when the
// service answers with an empty or non-JSON body.
func (c *Client) UpdateRole(ctx context.Context, userID int64, role ticket.Role) (*ticket.User, error) {
	path := "/api/users/" + strconv.FormatInt(userID, 10) + "/role"
	request := c.newRequest(ctx).SetQueryParam("role", string(role.Canonical()))

	response, err := c.execute(request, http.MethodPut, path)
	if err != nil {
		return nil, err
	}
	body := bytes.TrimSpace(response.Body())
	if len(body) == 0 || body[0] != '{' {
		return nil, nil
	}
	var updated ticket.User
	if err := decodeBody(http.MethodPut, path, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
