// Package middleware is the HTTP middleware of the results API
// chi's handlers are re-exported so route code never imports chi itself
package middleware

import (
	"net/http"
	"time"

	pstrings "feasibility/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

var (
	RequestID    = chimw.RequestID
	RealIP       = chimw.RealIP
	NoCache      = chimw.NoCache
	StripSlashes = chimw.StripSlashes
)

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// Heartbeat answers GET and HEAD on path before any routing or auth
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// Compress compresses JSON bodies for clients that accept gzip or deflate
func Compress(level int) func(http.Handler) http.Handler {
	return chimw.Compress(level, "application/json")
}

// CORSOptions configures browser access to the read-only results routes
type CORSOptions struct {
	// AllowedOrigins defaults to any origin
	AllowedOrigins []string
	MaxAge         int
}

// CORS allows reads only; the API has no routes that change state
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: pstrings.IfEmpty(o.AllowedOrigins, []string{"*"}),
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         o.MaxAge,
	})
}
