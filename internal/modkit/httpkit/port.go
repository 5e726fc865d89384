// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"net/http"
	"strings"

	perrs "feasibility/internal/platform/errors"
)

// TokenFunc resolves a bearer token to the client it was issued to
type TokenFunc func(token string) (clientID string, err error)

// Port implements middleware.AuthPort over the Authorization header
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from fn
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// Parse returns the client for the "Bearer <token>" header, matching the scheme case-insensitively
// Missing or malformed headers and rejected tokens are all Unauthorized
func (p *Port) Parse(r *http.Request) (string, error) {
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer"
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	tok := strings.TrimSpace(s[len(prefix):])
	if tok == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	if p.parse == nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	client, err := p.parse(tok)
	if err != nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	return client, nil
}
