// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// Chat sends one message to the support assistant on behalf of userID
// and returns its plain-text reply.
func (c *Client) Chat(ctx context.Context, userID int64, message string) (string, error) {
	request := c.newRequest(ctx).
		SetHeader("Content-Type", "text/plain").
		SetHeader("Accept", "text/plain, */*").
		SetQueryParam("userId", strconv.FormatInt(userID, 10)).
		SetBody(message)

	response, err := c.execute(request, http.MethodPost, "/api/chat")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response.String()), nil
}
