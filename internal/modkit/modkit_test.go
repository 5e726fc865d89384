package modkit

import (
	"testing"

	phttp "feasibility/internal/platform/net/http"
)

type stub struct {
	mounted bool
	ports   any
}

func (s *stub) MountRoutes(_ phttp.Router) { s.mounted = true }
func (s *stub) Ports() any                 { return s.ports }
func (s *stub) Name() string               { return "stub" }

var _ Module = (*stub)(nil)

func TestModule_InterfaceSurface(t *testing.T) {
	t.Parallel()

	var m Module = &stub{ports: 42}
	m.MountRoutes(nil)

	if !m.(*stub).mounted {
		t.Fatal("expected MountRoutes to be called")
	}
	if got := m.Ports(); got != 42 {
		t.Fatalf("unexpected Ports value: got=%v want=42", got)
	}
}
