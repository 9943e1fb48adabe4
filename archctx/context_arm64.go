//go:build arm64

package archctx

import "unsafe"

const supported = true

// register offsets within Context, matching the order Swap (context_arm64.s)
// stores and loads them in. x28 (the Go goroutine pointer) is deliberately
// absent: a strand runs on the same goroutine as its resumer, only the
// hardware stack pointer changes, so g must never be touched here.
const (
	regR19 = iota
	regR20
	regR21
	regR22
	regR23
	regR24
	regR25
	regR26
	regR27
	regFP // x29
	regLR // x30, doubles as the resume-point ("ip") slot
	regSP
	regR0
	regR1
	regCount
)

// Context is the arm64 AAPCS64 callee-saved register file (x19-x27, the
// frame pointer, the link register) plus sp, x0, and x1.
type Context struct {
	regs [regCount]uintptr
}

// Init populates ctx so that the next Swap into it branches to entry on a
// fresh, 16-byte aligned stack carved out of [stackBase, stackBase+stackLen),
// with a1 and a2 delivered in x0/x1.
func Init(ctx *Context, stackBase unsafe.Pointer, stackLen uintptr, entry, a1, a2 uintptr) {
	top := uintptr(stackBase) + stackLen
	top -= top % Align
	zero := (*uintptr)(unsafe.Pointer(top - unsafe.Sizeof(uintptr(0))))
	*zero = 0

	ctx.regs[regR0] = a1
	ctx.regs[regR1] = a2
	ctx.regs[regLR] = entry
	ctx.regs[regSP] = top
}

// Swap stores the caller's callee-saved registers, sp, and link register
// into save, then loads the same fields from load and branches.
//
//go:noescape
func Swap(save, load *Context)

// StackSize returns the number of bytes between the initial top of stack and
// ctx's saved stack pointer.
func StackSize(ctx *Context, stackBase unsafe.Pointer, stackLen uintptr) uintptr {
	top := uintptr(stackBase) + stackLen
	top -= top % Align
	return top - ctx.regs[regSP]
}

// String renders the register file the way strand.Print dumps it.
func (c *Context) String() string {
	return dumpRegs([]namedReg{
		{"x19", c.regs[regR19]}, {"x20", c.regs[regR20]},
		{"x21", c.regs[regR21]}, {"x22", c.regs[regR22]},
		{"x23", c.regs[regR23]}, {"x24", c.regs[regR24]},
		{"x25", c.regs[regR25]}, {"x26", c.regs[regR26]},
		{"x27", c.regs[regR27]}, {"fp", c.regs[regFP]},
		{"lr", c.regs[regLR]}, {"sp", c.regs[regSP]},
		{"x0", c.regs[regR0]}, {"x1", c.regs[regR1]},
	})
}
