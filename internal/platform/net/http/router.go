package http

import "net/http"

// Handler is a plain handler func; modules never see chi types
type Handler = func(http.ResponseWriter, *http.Request)

// Router is what modules mount on
// The API only serves reads so only GET is routed per method
type Router interface {
	Get(path string, h Handler)
	Handle(path string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Group(fn func(Router))
	Route(pattern string, fn func(Router))
}
