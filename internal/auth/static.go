package auth

import (
	"context"
	"crypto/subtle"
)

// StaticVerifier resolves credentials against a fixed token → tenant table.
// Used for single-box deployments and tests where no identity provider runs.
type StaticVerifier struct {
	tokens map[string]string
}

// Compile-time check that StaticVerifier implements Verifier.
var _ Verifier = (*StaticVerifier)(nil)

// NewStaticVerifier builds a verifier from a token → tenant map.
func NewStaticVerifier(tokens map[string]string) *StaticVerifier {
	copied := make(map[string]string, len(tokens))
	for token, tenant := range tokens {
		copied[token] = tenant
	}
	return &StaticVerifier{tokens: copied}
}

// Verify compares the credential against every known token in constant time
// per comparison, so response timing does not reveal token prefixes.
func (v *StaticVerifier) Verify(_ context.Context, credential string) (string, error) {
	for token, tenant := range v.tokens {
		if subtle.ConstantTimeCompare([]byte(credential), []byte(token)) == 1 {
			return tenant, nil
		}
	}
	return "", ErrUnauthenticated
}
