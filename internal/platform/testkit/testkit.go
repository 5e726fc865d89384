// Package testkit holds helpers shared by package tests
package testkit

import (
	"sync"
	"testing"
)

var serial sync.Mutex

// Swap sets *target to v until t ends
// Tests that swap package state should call Serial first
func Swap[T any](t testing.TB, target *T, v T) {
	t.Helper()
	old := *target
	*target = v
	t.Cleanup(func() { *target = old })
}

// Serial holds a process-wide lock until t ends
func Serial(t testing.TB) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}

// MustPanic fails t unless fn panics
func MustPanic(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	fn()
}
