package strand

import (
	"fmt"
	"io"
	"os"
)

// FatalError describes a precondition violation — free of Current/Active,
// resume of Current/Active/Dead, yield outside any strand. These are
// programmer errors, not recoverable conditions: attempting to continue
// would violate the state invariants every other operation relies on, so
// abort reports one and terminates the process rather than panicking
// (panic is recoverable; these must not be).
type FatalError struct {
	Op        string
	State     State
	Backtrace string
}

func (e *FatalError) Error() string {
	if e.Backtrace != "" {
		return fmt.Sprintf("strand: %s (state=%s)\n%s", e.Op, e.State, e.Backtrace)
	}
	return fmt.Sprintf("strand: %s (state=%s)", e.Op, e.State)
}

// abort reports err to stderr and terminates the process. s may be nil
// (e.g. yield outside any strand).
func abort(op string, s *Strand) {
	st := Suspended
	bt := ""
	if s != nil {
		st = s.state
		bt = s.backtrace
	}
	err := &FatalError{Op: op, State: st, Backtrace: bt}
	fmt.Fprintln(abortOutput, err.Error())
	osExit(2)
}

// osExit is a var so tests can intercept process termination instead of
// actually killing the test binary.
var osExit = os.Exit

// abortOutput is a var so tests can capture a fatal diagnostic's text
// instead of writing to the real stderr.
var abortOutput io.Writer = os.Stderr
