package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strandrt/strand"
)

func TestPingPongCompletesRequestedTransfers(t *testing.T) {
	elapsed, err := pingPong(strand.StackMin, 0, 100)
	require.NoError(t, err)
	require.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))
}
