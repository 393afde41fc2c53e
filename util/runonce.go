package util

import (
	"sync/atomic"
)

// RunOnce is a function wrapper that calls the underlying function at most once, e.g. to close a shared resource
//
// Returns true when the wrapped function is actually called by this invocation
type RunOnce func() bool

// NewRunOnce creates a RunOnce calling the given "f". Concurrent callers don't wait for "f" to finish.
func NewRunOnce(f func()) RunOnce {
	var invoked atomic.Bool
	return func() bool {
		if !invoked.CompareAndSwap(false, true) {
			return false
		}
		f()
		return true
	}
}
