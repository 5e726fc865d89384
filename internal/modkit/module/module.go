// Package module is the contract the API mounts and main pulls ports from
package module

import phttp "feasibility/internal/platform/net/http"

// Module is implemented by every service package's module
// Ports returns the value other modules are wired with, nil when there is none
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
