// Package swaggerkit serves the generated OpenAPI document and the Swagger UI over it
package swaggerkit

import (
	"net/http"

	phttp "feasibility/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount serves the UI under base and the document at base/doc.json
func Mount(r phttp.Router, base string) {
	doc := base + "/doc.json"
	ui := httpSwagger.Handler(httpSwagger.InstanceName("api"), httpSwagger.URL(doc))

	r.Get(base, http.RedirectHandler(base+"/", http.StatusPermanentRedirect).ServeHTTP)
	r.Get(doc, serveDocJSON())
	r.Handle(base+"/*", ui)
}
