package httpkit

import (
	"net/http"

	phttp "feasibility/internal/platform/net/http"
)

// recRouter records what gets mounted; every subrouter is the router itself
type recRouter struct {
	routes   []string
	prefixes []string
	mw       [][]func(http.Handler) http.Handler
	groups   int
	handlers map[string]phttp.Handler
}

func (f *recRouter) Get(path string, h phttp.Handler) {
	f.routes = append(f.routes, "GET "+path)
	if f.handlers == nil {
		f.handlers = map[string]phttp.Handler{}
	}
	f.handlers[path] = h
}

func (f *recRouter) Handle(path string, _ http.Handler) { f.routes = append(f.routes, "ANY "+path) }

func (f *recRouter) Use(mw ...func(http.Handler) http.Handler) { f.mw = append(f.mw, mw) }

func (f *recRouter) Group(fn func(Router)) {
	f.groups++
	fn(f)
}

func (f *recRouter) Route(prefix string, fn func(Router)) {
	f.prefixes = append(f.prefixes, prefix)
	fn(f)
}
