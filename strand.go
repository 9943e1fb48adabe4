// Package strand provides symmetric stackful coroutines for a single OS
// thread: a strand owns its own call stack and can be suspended at any
// point and later resumed, exchanging one machine-word value on each
// transfer of control.
//
// A strand must be created, resumed, yielded, and freed on the same OS
// thread; callers that share a goroutine across strand calls must pin it
// with runtime.LockOSThread for the duration. See Configure, New, Resume,
// and Yield.
package strand

import (
	"fmt"
	"io"
	"os"
	"unsafe"

	"github.com/strandrt/strand/archctx"
	"github.com/strandrt/strand/deferlist"
	"github.com/strandrt/strand/internal/gbounds"
	"github.com/strandrt/strand/stackmap"
)

// defaultPrintWriter is where Print sends its dump when out is nil.
var defaultPrintWriter io.Writer = os.Stdout

// Strand is a coroutine: an independently-schedulable execution context
// with its own stack.
//
// The Strand header itself lives on the ordinary Go heap, not inside its
// stack mapping — see DESIGN.md for why the C original's co-located header
// trick does not survive translation to a garbage-collected language.
// Only the raw machine stack that ArchContext's register file points into
// lives inside the guarded stackmap.Region.
type Strand struct {
	ctx    archctx.Context
	parent *Strand
	fn     func(data any, val uintptr) uintptr
	data   any
	value  uintptr

	deferList deferlist.List
	backtrace string

	region  *stackmap.Region
	mapSize uint32

	// rootBounds is set only on a thread's implicit root strand: the
	// goroutine stack bounds that were active before strand ever ran on
	// this thread.
	rootBounds gbounds.Bounds

	state State
	flags Flags
	freed bool
}

// Alive reports whether s is non-nil and not Dead.
func Alive(s *Strand) bool {
	return s != nil && s.state != Dead
}

// StackUsed returns the number of bytes between the top of s's stack and
// the stack pointer saved in s's context when s was last swapped out. The
// live stack pointer is never read: for the Current strand the result
// reflects its last swap-out, or is zero if it has not been swapped out
// since creation.
func StackUsed(s *Strand) uintptr {
	if s.region == nil {
		return 0
	}
	return archctx.StackSize(&s.ctx, s.stackBase(), s.stackLen())
}

// StackSize returns the total usable stack extent s was created with, not
// merely the portion used so far.
func StackSize(s *Strand) uintptr {
	if s.region == nil {
		return 0
	}
	return s.stackLen()
}

// Main returns the calling thread's implicit root strand: the strand every
// resume chain ultimately terminates at.
func Main() *Strand {
	return &state().top
}

// Print writes a diagnostic dump of s's state and register file to out. A
// nil out defaults to os.Stdout; a nil s prints a null marker.
func Print(s *Strand, out io.Writer) {
	if out == nil {
		out = defaultPrintWriter
	}
	if s == nil {
		fmt.Fprintln(out, "#<Strand:(nil)>")
		return
	}
	fmt.Fprintf(out, "#<Strand:%p state=%s, stack=%d> {\n", s, s.state, StackUsed(s))
	fmt.Fprint(out, s.ctx.String())
	if s.backtrace != "" {
		fmt.Fprintf(out, "captured at:\n%s", s.backtrace)
	}
	fmt.Fprintln(out, "}")
}

func (s *Strand) stackBase() unsafe.Pointer {
	lo := 0
	if s.region.Guarded {
		lo = stackmap.PageSize
	}
	return unsafe.Pointer(&s.region.Mem[lo])
}

// stackLen reserves one trailing page that would hold the co-located
// header in the original C layout; this port leaves it unused (see
// DESIGN.md) rather than repurpose it for anything GC-visible.
func (s *Strand) stackLen() uintptr {
	lo := 0
	if s.region.Guarded {
		lo = stackmap.PageSize
	}
	return uintptr(int(s.mapSize) - lo - stackmap.PageSize)
}

func (s *Strand) bounds() gbounds.Bounds {
	if s.region == nil {
		return s.rootBounds
	}
	lo := uintptr(s.stackBase())
	hi := lo + s.stackLen()
	return gbounds.Bounds{Lo: lo, Hi: hi, Guard: lo}
}
