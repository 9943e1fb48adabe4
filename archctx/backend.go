package archctx

import "unsafe"

//go:generate mockgen -destination=archctxmock/backend_mock.go -package=archctxmock github.com/strandrt/strand/archctx Backend

// Backend abstracts Init/Swap/StackSize behind an interface so that higher
// layers (the runtime's resume/yield orchestration) can be unit-tested with
// a fake that never actually switches stacks. The real strand package never
// calls through this interface on its hot path; Default exists for tests.
type Backend interface {
	Init(ctx *Context, stackBase unsafe.Pointer, stackLen uintptr, entry, a1, a2 uintptr)
	Swap(save, load *Context)
	StackSize(ctx *Context, stackBase unsafe.Pointer, stackLen uintptr) uintptr
}

// Default is the Backend backed by the real per-GOARCH assembly.
var Default Backend = defaultBackend{}

type defaultBackend struct{}

func (defaultBackend) Init(ctx *Context, stackBase unsafe.Pointer, stackLen uintptr, entry, a1, a2 uintptr) {
	Init(ctx, stackBase, stackLen, entry, a1, a2)
}

func (defaultBackend) Swap(save, load *Context) {
	Swap(save, load)
}

func (defaultBackend) StackSize(ctx *Context, stackBase unsafe.Pointer, stackLen uintptr) uintptr {
	return StackSize(ctx, stackBase, stackLen)
}
