package token

import "sync/atomic"

// nextID tracks the next segment identity handed out.
var nextID atomic.Uint64

// NextID returns a process-unique identity for a new segment.
//
// Thread-safe: files parsed in parallel draw from the same counter.
func NextID() uint64 {
	return nextID.Add(1)
}
