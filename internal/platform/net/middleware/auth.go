package middleware

import (
	"net/http"

	pnet "feasibility/internal/platform/net"
)

// AuthPort identifies the API client behind a request
type AuthPort interface {
	Parse(r *http.Request) (clientID string, err error)
}

// Auth rejects requests p cannot identify and stores the client for the rest of the chain
// A nil port leaves the routes open
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			client, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithClient(r.Context(), client)))
		})
	}
}
