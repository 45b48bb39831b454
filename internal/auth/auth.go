// Package auth translates a bearer credential into a tenant identity.
//
// Every request-serving operation verifies first and rejects before touching
// storage. All failure modes — missing header, malformed scheme, a credential
// the provider rejects, or an unreachable provider — collapse to the single
// ErrUnauthenticated error; callers cannot distinguish them, and this layer
// never retries.
package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrUnauthenticated is the only error Verify surfaces.
var ErrUnauthenticated = errors.New("unauthenticated")

// Verifier resolves a bearer credential to an opaque tenant identifier.
type Verifier interface {
	Verify(ctx context.Context, credential string) (tenantID string, err error)
}

// ParseBearer extracts the credential from an Authorization header value.
// An empty or non-Bearer header yields ErrUnauthenticated.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrUnauthenticated
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", ErrUnauthenticated
	}
	credential := strings.TrimPrefix(header, "Bearer ")
	if credential == "" {
		return "", ErrUnauthenticated
	}
	return credential, nil
}
