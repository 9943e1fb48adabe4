//go:build amd64

package archctx

import "unsafe"

const supported = true

// register offsets within Context, matching the order Swap (context_amd64.s)
// stores and loads them in.
const (
	regBX = iota
	regBP
	regR12
	regR13
	regR14
	regR15
	regDI
	regSI
	regIP
	regSP
	regCount
)

// Context is the x86-64 System V callee-saved register file: rbx, rbp,
// r12-r15, rdi, rsi, rip, rsp. Non-callee-saved registers are clobbered
// across a Swap and are not part of this type.
type Context struct {
	regs [regCount]uintptr
}

// Init populates ctx so that the next Swap into it enters entry on a fresh,
// 16-byte aligned stack carved out of [stackBase, stackBase+stackLen), with
// a1 and a2 delivered in the first two argument registers. The topmost
// stack word is zeroed so a bogus ret traps instead of running off into
// unrelated memory.
func Init(ctx *Context, stackBase unsafe.Pointer, stackLen uintptr, entry, a1, a2 uintptr) {
	top := uintptr(stackBase) + stackLen
	top -= top % Align
	sp := (*uintptr)(unsafe.Pointer(top - unsafe.Sizeof(uintptr(0))))
	*sp = 0

	ctx.regs[regDI] = a1
	ctx.regs[regSI] = a2
	ctx.regs[regIP] = entry
	ctx.regs[regSP] = uintptr(unsafe.Pointer(sp))
}

// Swap stores the caller's callee-saved registers, ip, and sp into save,
// then loads the same fields from load and jumps. It returns to its Go
// caller only once some future Swap targets save again.
//
//go:noescape
func Swap(save, load *Context)

// StackSize returns the number of bytes between the initial top of stack
// (computed from stackBase/stackLen the same way Init derives it) and
// ctx's saved stack pointer.
func StackSize(ctx *Context, stackBase unsafe.Pointer, stackLen uintptr) uintptr {
	top := uintptr(stackBase) + stackLen
	top -= top % Align
	top -= unsafe.Sizeof(uintptr(0))
	return top - ctx.regs[regSP]
}

// String renders the register file the way strand.Print dumps it.
func (c *Context) String() string {
	return dumpRegs([]namedReg{
		{"rbx", c.regs[regBX]}, {"rbp", c.regs[regBP]},
		{"r12", c.regs[regR12]}, {"r13", c.regs[regR13]},
		{"r14", c.regs[regR14]}, {"r15", c.regs[regR15]},
		{"rdi", c.regs[regDI]}, {"rsi", c.regs[regSI]},
		{"rip", c.regs[regIP]}, {"rsp", c.regs[regSP]},
	})
}
