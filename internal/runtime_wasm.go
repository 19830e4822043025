//go:build wasm

package internal

import "sync"

var once sync.Once
var globalRuntime *Runtime

func GetRuntime() *Runtime {
	once.Do(func() {
		globalRuntime = NewRuntime()
	})

	return globalRuntime
}

// Bind is a no-op, there is a single goroutine-independent runtime under wasm.
func Bind(r *Runtime) (restore func()) {
	return func() {}
}
