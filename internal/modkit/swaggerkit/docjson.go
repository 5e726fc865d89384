package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	perr "feasibility/internal/platform/errors"
	docs "feasibility/internal/services/api/docs"
)

// docReader returns the generated document; tests swap it
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// serveDocJSON serves the document with the shared error responses filled in
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		normalize(spec, "/api/v1")
		errorSchema(spec)
		eachOperation(spec, func(path string, responses map[string]any) {
			addResponse(responses, http.StatusInternalServerError, perr.ErrorCodePanic, "panic recovered")
			// every parameterised read can miss
			if strings.Contains(path, "{") {
				addResponse(responses, http.StatusNotFound, perr.ErrorCodeNotFound, "no results for query q-42")
			}
		})

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// normalize pins the document to OpenAPI 3.0.3, the newest the bundled UI renders, and sets a server url
func normalize(spec map[string]any, url string) {
	delete(spec, "swagger")
	spec["openapi"] = "3.0.3"
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

// errorSchema adds ErrorResponse, the envelope pnet.Error writes
func errorSchema(spec map[string]any) {
	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	str := map[string]any{"type": "string"}
	num := map[string]any{"type": "integer", "format": "int32"}
	schemas["ErrorResponse"] = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status_code": num,
			"status":      str,
			"code":        num,
			"error":       str,
			"request_id":  str,
		},
		"required": []any{"status_code", "status"},
	}
}

func eachOperation(spec map[string]any, fn func(path string, responses map[string]any)) {
	paths, _ := spec["paths"].(map[string]any)
	for path, item := range paths {
		ops, _ := item.(map[string]any)
		for _, op := range ops {
			if m, ok := op.(map[string]any); ok {
				fn(path, child(m, "responses"))
			}
		}
	}
}

// addResponse documents status with an example envelope unless the operation already does
func addResponse(responses map[string]any, status int, code perr.ErrorCode, msg string) {
	key := strconv.Itoa(status)
	if _, ok := responses[key]; ok {
		return
	}
	text := http.StatusText(status)
	responses[key] = map[string]any{
		"description": text,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      text,
					"code":        code,
					"error":       msg,
				},
			},
		},
	}
}

// child returns m[key] as a map, creating it when absent
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}
