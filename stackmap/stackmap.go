// Package stackmap provides page-aligned, optionally guarded virtual memory
// regions sized for use as a coroutine stack plus one reserved header page.
package stackmap

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// PageSize is the size, in bytes, of a single page on this platform.
var PageSize = unix.Getpagesize()

// Region is a single contiguous mapping. Mem is the full mapping, including
// the guard page when Guarded is true; callers that requested guard
// protection must not touch Mem[:PageSize].
type Region struct {
	Mem     []byte
	Guarded bool
}

// Alloc obtains a private anonymous mapping of size bytes, readable and
// writable. If guard is true, the lowest page is additionally mprotect'd to
// PROT_NONE before Alloc returns, so that a downward stack overflow faults
// there rather than corrupting adjacent memory.
//
// Alloc panics if size is zero or not a multiple of PageSize: both are
// programmer errors in the caller (strand.New), never a runtime condition.
func Alloc(size uint32, guard bool) (*Region, error) {
	if size == 0 {
		panic("stackmap: Alloc with zero size")
	}
	if int(size)%PageSize != 0 {
		panic("stackmap: Alloc size not a multiple of PageSize")
	}

	mem, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("stackmap: mmap %d bytes: %w", size, err)
	}

	if guard {
		if err := unix.Mprotect(mem[:PageSize], unix.PROT_NONE); err != nil {
			_ = unix.Munmap(mem)
			return nil, fmt.Errorf("stackmap: mprotect guard page: %w", err)
		}
	}

	return &Region{Mem: mem, Guarded: guard}, nil
}

// Protect mprotects r's lowest page to PROT_NONE and marks r as guarded. It
// is used when a mapping recycled off a dead list was not already guarded
// but the new strand's configuration requests FProtect; callers must not
// call it on an already-guarded Region.
func Protect(r *Region) error {
	if err := unix.Mprotect(r.Mem[:PageSize], unix.PROT_NONE); err != nil {
		return fmt.Errorf("stackmap: mprotect guard page: %w", err)
	}
	r.Guarded = true
	return nil
}

// Free returns r's mapping to the OS. Free panics if r has already been
// freed (nil Mem), the same double-free contract stackmap's caller relies
// on when recycling the dead list.
func Free(r *Region) error {
	if r.Mem == nil {
		panic("stackmap: Free of an already-freed Region")
	}
	mem := r.Mem
	r.Mem = nil
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("stackmap: munmap: %w", err)
	}
	return nil
}

// RoundSize rounds stackSize up to a whole number of pages and adds one page
// reserved for a strand header (the strand package leaves it unused), plus
// one more page when guard is requested.
func RoundSize(stackSize uint32, guard bool) uint32 {
	page := uint32(PageSize)
	size := ((stackSize-1)/page + 2) * page
	if guard {
		size += page
	}
	return size
}
