package strand

// GoFunc creates a strand whose body is a Go closure rather than a
// (fn, data) pair. This is a convenience layer over New: the closure is
// boxed onto the heap, stored as the strand's data, and run through a
// small shim body that invokes it and clears the box's reference to the
// closure on return. The
// resulting strand's semantics — resume, yield, free, dead-list recycling
// — are identical to one built with New directly.
func GoFunc(fn func(val uintptr) uintptr) (*Strand, error) {
	cfg := currentConfig()
	cfg.Flags |= flagClosure
	return newStrand(cfg, closureShim, &closureBox{fn: fn})
}

// NewGoFunc is GoFunc with an explicit stack size and flags, mirroring
// NewConfig's relationship to New.
func NewGoFunc(stackSize uint32, flags Flags, fn func(val uintptr) uintptr) (*Strand, error) {
	cfg := makeConfig(stackSize, flags)
	cfg.Flags |= flagClosure
	return newStrand(cfg, closureShim, &closureBox{fn: fn})
}

type closureBox struct {
	fn func(val uintptr) uintptr
}

func closureShim(data any, val uintptr) uintptr {
	box := data.(*closureBox)
	result := box.fn(val)
	box.fn = nil
	return result
}
