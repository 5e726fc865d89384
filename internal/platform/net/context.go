// Package net holds request scoped values shared by handlers and middlewares
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const (
	keyClient    ctxKey = "client"
	keyClientRef ctxKey = "client_ref"
)

// clientRef lets an outer middleware see the client an inner one authenticated
type clientRef struct{ id string }

// WithRequest stores reqID where chimw.GetReqID finds it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// WithClientRef reserves a slot that a later WithClient on a derived context fills
func WithClientRef(ctx context.Context) context.Context {
	return context.WithValue(ctx, keyClientRef, &clientRef{})
}

// WithClient records the authenticated API client
func WithClient(ctx context.Context, client string) context.Context {
	if client == "" {
		return ctx
	}
	if ref, ok := ctx.Value(keyClientRef).(*clientRef); ok {
		ref.id = client
	}
	return context.WithValue(ctx, keyClient, client)
}

// RequestID returns the request id, empty when none was assigned
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// ClientID returns the authenticated client, empty for anonymous requests
func ClientID(ctx context.Context) string {
	if v, ok := ctx.Value(keyClient).(string); ok {
		return v
	}
	if ref, ok := ctx.Value(keyClientRef).(*clientRef); ok {
		return ref.id
	}
	return ""
}
