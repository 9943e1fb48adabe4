// Package archctx holds the architecture-specific register file for a
// suspended strand and the leaf primitive that swaps two of them.
//
// Context is an opaque, fixed-size array of machine words. Only Init, Swap,
// StackSize, and the String dump ever read or write it; callers elsewhere
// in strand treat it as a black box and never index into it directly.
package archctx

import "errors"

// Align is the alignment, in bytes, Init rounds the top of a fresh stack
// down to. The x86-64 and arm64 ABIs both require a 16-byte aligned stack
// at a call boundary; on amd64 the initial stack pointer sits one word
// below that aligned top, on the zero return address, as at a function's
// entry after a CALL.
const Align = 16

// ErrUnsupported is the value Init and Swap panic with on a GOARCH with no
// register-swap backend compiled in.
var ErrUnsupported = errors.New("archctx: unsupported GOARCH")

// Supported reports whether this build has a real Init/Swap backend for the
// running GOARCH. False on any architecture other than amd64 and arm64.
func Supported() bool {
	return supported
}
