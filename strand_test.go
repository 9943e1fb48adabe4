package strand

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// abortPanic is the sentinel osExit substitutes for process termination in
// tests: a real os.Exit can't be recovered from, so tests that need to
// observe an abort install a func that panics this instead.
type abortPanic struct{ code int }

func withCapturedAbort(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevExit := abortOutput, osExit
	abortOutput = &buf
	osExit = func(code int) { panic(abortPanic{code}) }
	t.Cleanup(func() {
		abortOutput, osExit = prevOut, prevExit
	})
	return &buf
}

func TestFibonacciDriverYieldsEveryThirdTerm(t *testing.T) {
	gen, err := New(func(data any, val uintptr) uintptr {
		a, b := uintptr(0), uintptr(1)
		for {
			Yield(a)
			a, b = b, a+b
		}
	}, nil)
	require.NoError(t, err)
	defer Free(gen)

	driver, err := New(func(data any, val uintptr) uintptr {
		g := data.(*Strand)
		var v uintptr
		for {
			for i := 0; i < 3; i++ {
				v = Resume(g, 0)
			}
			Yield(v)
		}
	}, gen)
	require.NoError(t, err)
	defer Free(driver)

	want := []uintptr{1, 5, 21, 89, 377, 1597, 6765, 28657, 121393, 514229}
	got := make([]uintptr, len(want))
	for i := range got {
		got[i] = Resume(driver, 0)
	}
	require.Equal(t, want, got)
}

func TestDeferCountRunsLIFOAtTermination(t *testing.T) {
	var n int
	var order []int

	s, err := New(func(data any, val uintptr) uintptr {
		require.NoError(t, Defer(func() { n++; order = append(order, 1) }))
		require.NoError(t, Defer(func() { n++; order = append(order, 2) }))
		require.NoError(t, Defer(func() { n++; order = append(order, 3) }))
		return 0
	}, nil)
	require.NoError(t, err)

	Resume(s, 0)

	require.False(t, Alive(s))
	require.Equal(t, 3, n)
	require.Equal(t, []int{3, 2, 1}, order)
	require.NoError(t, func() error { Free(s); return nil }())
}

func mappingAddr(s *Strand) uintptr {
	return uintptr(unsafe.Pointer(&s.region.Mem[0]))
}

func TestFreeThenNewReusesTheSameMapping(t *testing.T) {
	body := func(data any, val uintptr) uintptr { return Yield(val) }

	first, err := NewConfig(StackMin, 0, body, nil)
	require.NoError(t, err)
	addr := mappingAddr(first)
	Free(first)

	second, err := NewConfig(StackMin, 0, body, nil)
	require.NoError(t, err)
	defer Free(second)

	require.Equal(t, addr, mappingAddr(second))
}

func TestResumeOfDeadStrandAborts(t *testing.T) {
	buf := withCapturedAbort(t)

	s, err := New(func(data any, val uintptr) uintptr { return val }, nil)
	require.NoError(t, err)
	Resume(s, 0)
	require.False(t, Alive(s))

	require.PanicsWithValue(t, abortPanic{2}, func() {
		Resume(s, 0)
	})
	require.Contains(t, strings.ToLower(buf.String()), "dead")
}

func TestYieldOutsideAnyStrandAborts(t *testing.T) {
	withCapturedAbort(t)
	require.PanicsWithValue(t, abortPanic{2}, func() {
		Yield(0)
	})
}

func TestFreeOfCurrentStrandAborts(t *testing.T) {
	withCapturedAbort(t)

	var s *Strand
	s, err := New(func(data any, val uintptr) uintptr {
		require.Panics(t, func() { Free(s) })
		return val
	}, nil)
	require.NoError(t, err)
	Resume(s, 0)
}

func TestConfigurePublishIsNeverTornAcrossThreads(t *testing.T) {
	const oldSize, newSize = StackMin, StackMin * 2
	Configure(oldSize, 0)

	var g errgroup.Group
	var mu sync.Mutex
	seen := map[uint32]bool{}

	g.Go(func() error {
		Configure(newSize, FProtect)
		return nil
	})

	for i := 0; i < 64; i++ {
		g.Go(func() error {
			cfg := currentConfig()
			mu.Lock()
			seen[cfg.StackSize] = true
			mu.Unlock()
			return nil
		})
	}

	require.NoError(t, g.Wait())
	for size := range seen {
		require.Contains(t, []uint32{oldSize, newSize}, size)
	}
}
