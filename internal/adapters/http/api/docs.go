package api

import (
	_ "embed"
	"net/http"
)

// OpenAPI contains the embedded OpenAPI document for the diagnostics routes.
//
//go:embed openapi.yaml
var OpenAPI []byte

// HandleOpenAPI serves GET /openapi.yaml.
func HandleOpenAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(OpenAPI)
}
