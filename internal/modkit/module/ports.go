package module

import "fmt"

// PortsOf returns m's ports as T
func PortsOf[T any](m Module) (T, bool) {
	t, ok := m.Ports().(T)
	return t, ok
}

// MustPortsOf is PortsOf for wiring code; a mismatch is a programming error
func MustPortsOf[T any](m Module) T {
	t, ok := PortsOf[T](m)
	if !ok {
		panic(fmt.Sprintf("module %s exports %T, not %T", m.Name(), m.Ports(), t))
	}
	return t
}
