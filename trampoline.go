package strand

import (
	"unsafe"

	"github.com/strandrt/strand/archctx"
	"github.com/strandrt/strand/internal/gbounds"
)

// trampolineEntryAsm is the raw assembly landing pad Init points a new
// strand's saved instruction pointer at. It receives the *Strand in the
// first System V / AAPCS64 integer argument register (archctx.Init's a1)
// exactly as archctx.Swap leaves it, and forwards to goEntry using an ordinary
// Go call so the rest of construction can be plain Go.
//
//go:noescape
func trampolineEntryAsm()

// trampolineEntry returns trampolineEntryAsm's code address as a raw
// uintptr suitable for archctx.Init's entry argument. Go func values are
// themselves pointers to a closure record whose first word is the code
// pointer; for a top-level func with no captures that word is stable and
// this is the standard way low-level Go code recovers it.
func trampolineEntry() uintptr {
	return **(**uintptr)(unsafe.Pointer(&funcValue))
}

var funcValue = trampolineEntryAsm

// goEntry is the body of every strand. It runs the user's fn to
// completion, retires the strand in place (state, defer list), and swaps
// back to whichever strand resumed it for the last time. It never returns:
// the final transfer hands control to the parent permanently.
func goEntry(selfAddr uintptr) {
	s := (*Strand)(unsafe.Pointer(selfAddr))
	ts := state()

	val := s.fn(s.data, s.value)

	parent := s.parent
	s.parent = nil
	s.value = val
	s.state = Dead
	parent.state = Current
	ts.current = parent
	ts.pool.Run(&s.deferList)

	transfer(s, parent)
	panic("strand: resumed a dead strand's trampoline")
}

// transfer performs one raw context swap, installing the target's stack
// bounds before the swap and restoring the caller's own the moment control
// returns here (which happens only when this goroutine's thread resumes
// "from" again, however much later and however many other strands ran on
// the thread in between).
func transfer(from, to *Strand) {
	prev := gbounds.Install(to.bounds())
	archctx.Swap(&from.ctx, &to.ctx)
	gbounds.Install(prev)
}
