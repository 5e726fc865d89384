package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// chiRouter serves the root mux and every subrouter below it
type chiRouter struct{ r chi.Router }

// AdaptChi exposes a chi router, usually the root *chi.Mux, as a Router
func AdaptChi(r chi.Router) Router { return chiRouter{r: r} }

func (c chiRouter) Get(p string, h Handler)                   { c.r.Get(p, h) }
func (c chiRouter) Handle(p string, h http.Handler)           { c.r.Handle(p, h) }
func (c chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.r.Use(mw...) }

func (c chiRouter) Group(fn func(Router)) {
	c.r.Group(func(sub chi.Router) { fn(chiRouter{r: sub}) })
}

func (c chiRouter) Route(pattern string, fn func(Router)) {
	c.r.Route(pattern, func(sub chi.Router) { fn(chiRouter{r: sub}) })
}

// Param returns the named route parameter of r
func Param(r *http.Request, name string) string { return chi.URLParam(r, name) }
