package strand

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/strandrt/strand/archctx"
	"github.com/strandrt/strand/deferlist"
	"github.com/strandrt/strand/internal/gbounds"
	"github.com/strandrt/strand/stackmap"
)

// threadState is the per-OS-thread bookkeeping a strand resume chain needs:
// the implicit root strand, the currently-running strand, a LIFO dead list
// of retired-but-reusable stack mappings, and the node pool backing every
// strand's defer list on this thread. One exists per goroutine that has
// ever touched the package, keyed by its runtime.g address: the state
// follows the goroutine, not the OS thread it happens to run on.
type threadState struct {
	top      Strand
	current  *Strand
	deadHead *Strand
	pool     deferlist.Pool
}

var states sync.Map // uintptr(gbounds.GoroutineID()) -> *threadState

func state() *threadState {
	id := gbounds.GoroutineID()
	if v, ok := states.Load(id); ok {
		return v.(*threadState)
	}
	ts := &threadState{}
	ts.top.state = Current
	ts.top.rootBounds = gbounds.Current()
	ts.current = &ts.top
	actual, _ := states.LoadOrStore(id, ts)
	return actual.(*threadState)
}

// New creates a strand using the current global configuration (see
// Configure). fn runs on its own stack once the strand is first resumed;
// its return value becomes the value delivered to whoever resumes the
// strand for the last time.
func New(fn func(data any, val uintptr) uintptr, data any) (*Strand, error) {
	return newStrand(currentConfig(), fn, data)
}

// NewConfig creates a strand overriding the global stack size and flags
// for this one instance only.
func NewConfig(stackSize uint32, flags Flags, fn func(data any, val uintptr) uintptr, data any) (*Strand, error) {
	return newStrand(makeConfig(stackSize, flags), fn, data)
}

func newStrand(cfg Config, fn func(data any, val uintptr) uintptr, data any) (*Strand, error) {
	if fn == nil {
		panic("strand: New called with a nil fn")
	}

	guard := cfg.Flags.has(FProtect)
	mapSize := stackmap.RoundSize(cfg.StackSize, guard)

	region := revive(mapSize)
	if region == nil {
		var err error
		region, err = stackmap.Alloc(mapSize, guard)
		if err != nil {
			return nil, fmt.Errorf("strand: new: %w", err)
		}
	} else if guard && !region.Guarded {
		if err := stackmap.Protect(region); err != nil {
			_ = stackmap.Free(region)
			return nil, fmt.Errorf("strand: new: %w", err)
		}
	}

	s := &Strand{
		fn:      fn,
		data:    data,
		region:  region,
		mapSize: mapSize,
		state:   Suspended,
		flags:   cfg.Flags,
	}
	if cfg.Flags.has(FCapture) {
		s.backtrace = captureBacktrace()
	}

	archctx.Init(&s.ctx, s.stackBase(), s.stackLen(), trampolineEntry(), uintptr(unsafe.Pointer(s)), 0)
	return s, nil
}

// revive pops the thread's most recently retired mapping if it is large
// enough to satisfy minSize, freeing and discarding it instead if it is
// too small. Only the head is consulted; entries behind it are never
// examined. Returns nil when the dead list is empty or its head is too small.
func revive(minSize uint32) *stackmap.Region {
	ts := state()
	if ts.deadHead != nil {
		dead := ts.deadHead
		ts.deadHead = dead.parent
		dead.parent = nil
		if dead.mapSize >= minSize {
			return dead.region
		}
		_ = stackmap.Free(dead.region)
	}
	return nil
}

// Free releases s: whatever remains of its defer list runs (a no-op if it
// already ran to completion on the trampoline's side of a natural return),
// its backtrace is dropped, and its stack mapping is pushed onto the
// thread's dead list for reuse by a future New/NewConfig of equal or
// lesser size rather than unmapped immediately.
//
// Free of a Current or Active strand is a programmer error and aborts the
// process. Freeing the same strand twice is also a programmer error — the
// mapping would otherwise be linked onto the dead list twice — but is only
// caught when FDebug is set, matching every other invariant check strand
// normally skips in its non-debug configuration.
func Free(s *Strand) {
	if s == nil {
		return
	}
	if s.state == Current || s.state == Active {
		abort("free", s)
		return
	}
	if s.flags.has(FDebug) && s.freed {
		abort("free", s)
		return
	}

	ts := state()
	ts.pool.Run(&s.deferList)
	s.backtrace = ""
	s.state = Dead
	s.freed = true

	s.parent = ts.deadHead
	ts.deadHead = s
}

// Defer registers fn on the calling strand's own defer list, to run in
// LIFO order with the other actions deferred on that strand when its body
// returns (or when Free is called on it, if it never finished). Actions
// deferred from the thread's implicit root strand are never run.
func Defer(fn func()) error {
	ts := state()
	return ts.pool.Add(&ts.current.deferList, fn)
}

// Resume transfers control from the calling (Current) strand to s,
// delivering val as s's resume value. It returns once s yields or its body
// returns, with the value s passed to Yield or returned.
//
// Resuming a strand that is not Suspended is a programmer error: resuming
// Current or Active would create a cycle on the resume chain, and
// resuming Dead would restart a stack that has already unwound.
func Resume(s *Strand, val uintptr) uintptr {
	ts := state()
	if s == nil || s.state != Suspended {
		abort("resume", s)
		return 0
	}

	caller := ts.current
	caller.state = Active
	s.parent = caller
	s.state = Current
	s.value = val
	ts.current = s

	if s.flags.has(FDebug) {
		checkParentChain(ts)
	}

	transfer(caller, s)

	return s.value
}

// Yield suspends the calling strand and transfers control back to its
// resumer, delivering val as that Resume call's return value.
//
// Yield from outside any strand (the calling strand is the thread's
// implicit root) is a programmer error and aborts.
func Yield(val uintptr) uintptr {
	ts := state()
	self := ts.current
	if self == &ts.top {
		abort("yield", nil)
		return 0
	}

	parent := self.parent
	self.state = Suspended
	self.value = val
	self.parent = nil
	parent.state = Current
	ts.current = parent

	if self.flags.has(FDebug) {
		checkParentChain(ts)
	}

	transfer(self, parent)

	return self.value
}

// checkParentChain walks ts.current's parent chain and aborts if it does
// not terminate at the thread's top strand — a cycle or a dangling nil
// before reaching top means some earlier transfer left s.parent in a
// state invariant 3 forbids. Only called under FDebug: it is an O(depth)
// walk on every transfer, not something every caller should pay for.
func checkParentChain(ts *threadState) {
	seen := make(map[*Strand]bool)
	cur := ts.current
	for cur != &ts.top {
		if cur == nil || seen[cur] {
			abort("invariant", ts.current)
			return
		}
		seen[cur] = true
		cur = cur.parent
	}
}

// MallocScoped allocates size bytes that are released — by dropping the
// runtime's last reference to the backing array — the next time the
// calling strand's defer list drains. There is no manual free: Go's
// allocator has no failure path a caller can recover from the way the
// original's out-of-memory return did, so the only thing left to port is
// the deterministic, defer-ordered release point.
func MallocScoped(size int) ([]byte, error) {
	buf := make([]byte, size)
	if err := Defer(func() { clear(buf) }); err != nil {
		return nil, err
	}
	return buf, nil
}

// CallocScoped is MallocScoped for a fixed-size element repeated n times;
// Go's make already zeroes the backing array, so this differs from
// MallocScoped only in how the caller likes to think about the size.
func CallocScoped(n, size int) ([]byte, error) {
	return MallocScoped(n * size)
}

func captureBacktrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
