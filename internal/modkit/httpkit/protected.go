package httpkit

import "feasibility/internal/platform/net/middleware"

// Protected mounts fn's routes in a group that runs Auth(p) first
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}
