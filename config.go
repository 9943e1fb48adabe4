package strand

import "sync/atomic"

// globalConfig packs {stackSize uint32, flags uint32} into one word so
// Configure can publish it with a single compare-and-swap and New/GoFunc
// can read it with a single aligned load — never a torn mix of an old
// stack_size with a new flags or vice versa.
var globalConfig atomic.Uint64

func init() {
	globalConfig.Store(pack(StackDefault, uint32(0)))
}

func pack(stackSize uint32, flags uint32) uint64 {
	return uint64(stackSize)<<32 | uint64(flags)
}

func unpack(w uint64) (stackSize uint32, flags uint32) {
	return uint32(w >> 32), uint32(w)
}

// Configure atomically publishes new default creation parameters. Already
// live strands are unaffected; only strands created after the publish
// observe the new values. Concurrent readers on other threads see either
// the value before this call or the one it installs, never a mix of the
// two.
func Configure(stackSize uint32, flags Flags) {
	c := makeConfig(stackSize, flags)
	next := pack(c.StackSize, uint32(c.Flags))
	for {
		old := globalConfig.Load()
		if globalConfig.CompareAndSwap(old, next) {
			return
		}
	}
}

func currentConfig() Config {
	size, flags := unpack(globalConfig.Load())
	return Config{StackSize: size, Flags: Flags(flags)}
}
