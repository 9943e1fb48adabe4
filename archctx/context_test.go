//go:build amd64 || arm64

package archctx

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestInitAlignsStackAndStoresArgs(t *testing.T) {
	stack := make([]byte, 64*1024)
	base := unsafe.Pointer(&stack[0])

	var ctx Context
	Init(&ctx, base, uintptr(len(stack)), 0xdeadbeef, 0x1111, 0x2222)

	require.True(t, Supported())
	require.Zero(t, StackSize(&ctx, base, uintptr(len(stack)))%Align, "stack use is measured from the aligned top, so a fresh context reports a multiple of Align")
	require.Contains(t, ctx.regs[:], uintptr(0xdeadbeef), "entry must be stored as the resume point")
	require.Contains(t, ctx.regs[:], uintptr(0x1111), "a1 must be stored in the first argument register slot")
	require.Contains(t, ctx.regs[:], uintptr(0x2222), "a2 must be stored in the second argument register slot")
	require.NotEmpty(t, ctx.String())
}

func TestStackSizeGrowsAsSavedSPMoves(t *testing.T) {
	stack := make([]byte, 64*1024)
	base := unsafe.Pointer(&stack[0])

	var ctx Context
	Init(&ctx, base, uintptr(len(stack)), 0, 0, 0)
	initial := StackSize(&ctx, base, uintptr(len(stack)))
	require.Zero(t, initial)

	ctx.regs[regSP] -= 64
	require.Equal(t, initial+64, StackSize(&ctx, base, uintptr(len(stack))))
}
