package httpkit

import (
	"net/http"
	"testing"
)

func pass(next http.Handler) http.Handler { return next }

func TestMountAPI_PrefixAndMiddleware(t *testing.T) {
	cases := []struct {
		version string
		mw      []func(http.Handler) http.Handler
		prefix  string
		uses    int
	}{
		{"v2", []func(http.Handler) http.Handler{pass, pass}, "/api/v2", 1},
		{"/v3", nil, "/api/v3", 0},
	}
	for _, tc := range cases {
		r := &recRouter{}
		mounted := 0
		MountAPI(r, tc.version, tc.mw, func(Router) { mounted++ })

		if len(r.prefixes) != 1 || r.prefixes[0] != tc.prefix {
			t.Fatalf("%s: prefixes = %v", tc.version, r.prefixes)
		}
		if len(r.mw) != tc.uses {
			t.Fatalf("%s: Use calls = %d", tc.version, len(r.mw))
		}
		if tc.uses > 0 && len(r.mw[0]) != len(tc.mw) {
			t.Fatalf("%s: middleware = %d", tc.version, len(r.mw[0]))
		}
		if mounted != 1 {
			t.Fatalf("%s: mounted %d times", tc.version, mounted)
		}
	}
}

func TestMountAPIV1(t *testing.T) {
	r := &recRouter{}
	MountAPIV1(r, nil, func(api Router) { api.Get("/meta", nil) })
	if r.prefixes[0] != "/api/v1" || r.routes[0] != "GET /meta" {
		t.Fatalf("prefixes=%v routes=%v", r.prefixes, r.routes)
	}
}
