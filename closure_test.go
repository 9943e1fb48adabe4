package strand

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoFuncRunsClosureAndReturnsItsValue(t *testing.T) {
	var ran bool
	s, err := GoFunc(func(val uintptr) uintptr {
		ran = true
		return val + 1
	})
	require.NoError(t, err)
	defer Free(s)

	require.Equal(t, uintptr(43), Resume(s, 42))
	require.True(t, ran)
	require.False(t, Alive(s))
}

func TestNewGoFuncHonorsExplicitStackSize(t *testing.T) {
	s, err := NewGoFunc(StackMin, 0, func(val uintptr) uintptr {
		return Yield(val * 2)
	})
	require.NoError(t, err)
	defer Free(s)

	require.GreaterOrEqual(t, StackSize(s), uintptr(StackMin))

	require.Equal(t, uintptr(10), Resume(s, 5))
	require.True(t, Alive(s))
	require.Equal(t, uintptr(99), Resume(s, 99))
	require.False(t, Alive(s))
}
