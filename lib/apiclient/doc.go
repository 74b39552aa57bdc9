// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package apiclient is the REST client for the ticketing service.
//
// Every request carries Content-Type: application/json, an
// Authorization: Bearer header when a token is set, and a fresh
// X-Request-ID. Paths starting with http:// or https:// are used as
// given; anything else is resolved against the configured base URL.
//
// Calls are single attempts. A non-success status becomes an
// [APIError] whose message is the service's JSON "message" field, or
// "Request failed: <status>" when the body carries none. Transport
// failures are returned wrapped with the method and path. Forms are
// validated before anything is sent.
package apiclient
