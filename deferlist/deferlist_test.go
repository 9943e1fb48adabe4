package deferlist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLIFOOrder(t *testing.T) {
	var pool Pool
	var list List

	var order []int
	require.NoError(t, pool.Add(&list, func() { order = append(order, 1) }))
	require.NoError(t, pool.Add(&list, func() { order = append(order, 2) }))
	require.NoError(t, pool.Add(&list, func() { order = append(order, 3) }))

	require.False(t, list.Empty())
	pool.Run(&list)

	require.Equal(t, []int{3, 2, 1}, order)
	require.True(t, list.Empty())
}

func TestRunDetachesBeforeExecuting(t *testing.T) {
	var pool Pool
	var list List

	var reentrant List
	require.NoError(t, pool.Add(&list, func() {
		require.True(t, list.Empty(), "Run must detach the chain before running its first action")
		require.NoError(t, pool.Add(&reentrant, func() {}))
	}))

	pool.Run(&list)

	require.True(t, list.Empty())
	require.False(t, reentrant.Empty(), "an add during Run attaches to whatever list is current, not the draining one")
}

func TestPoolReusesNodes(t *testing.T) {
	var pool Pool
	var list List

	ran := 0
	var released *node
	for i := 0; i < 3; i++ {
		require.NoError(t, pool.Add(&list, func() { ran++ }))
		if released != nil {
			require.Same(t, released, list.head, "Add must take the node the previous Run released")
		}
		pool.Run(&list)
		released = pool.free
	}
	require.Equal(t, 3, ran)
}
