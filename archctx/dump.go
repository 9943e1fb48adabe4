package archctx

import (
	"fmt"
	"strings"
)

type namedReg struct {
	name string
	val  uintptr
}

func dumpRegs(regs []namedReg) string {
	var b strings.Builder
	for _, r := range regs {
		fmt.Fprintf(&b, "\t%s: 0x%016x\n", r.name, r.val)
	}
	return b.String()
}
