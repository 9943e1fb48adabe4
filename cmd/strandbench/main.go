// Command strandbench drives a configurable number of ping-pong strand
// pairs, each pinned to its own OS thread, and reports the average time
// per transfer (one Resume or one Yield, half a round trip). It exists as a worked example of the package's public API
// and as a way to sanity-check context-switch cost across GOARCH targets.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/strandrt/strand"
)

func main() {
	app := &cli.App{
		Name:  "strandbench",
		Usage: "measure strand resume/yield throughput",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Value: runtime.NumCPU(), Usage: "number of independent ping-pong pairs"},
			&cli.IntFlag{Name: "transfers", Value: 1_000_000, Usage: "resume/yield round trips per worker"},
			&cli.Uint64Flag{Name: "stack-size", Value: strand.StackDefault, Usage: "stack size per strand, in bytes"},
			&cli.BoolFlag{Name: "protect", Usage: "install a guard page on every strand's stack"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	workers := c.Int("workers")
	transfers := c.Int("transfers")
	stackSize := uint32(c.Uint64("stack-size"))
	flags := strand.Flags(0)
	if c.Bool("protect") {
		flags |= strand.FProtect
	}

	results := make([]time.Duration, workers)
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			elapsed, err := pingPong(stackSize, flags, transfers)
			if err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			results[i] = elapsed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var total time.Duration
	for _, d := range results {
		total += d
	}
	perTransfer := total / time.Duration(workers*transfers*2)
	fmt.Printf("%d workers x %d round trips: %s/transfer\n", workers, transfers, perTransfer)
	return nil
}

// pingPong resumes a single strand `transfers` times, each round trip doing
// one Resume and one matching Yield, and returns the wall-clock time spent.
func pingPong(stackSize uint32, flags strand.Flags, transfers int) (time.Duration, error) {
	s, err := strand.NewConfig(stackSize, flags, func(data any, val uintptr) uintptr {
		for {
			val = strand.Yield(val + 1)
		}
	}, nil)
	if err != nil {
		return 0, err
	}
	defer strand.Free(s)

	start := time.Now()
	var val uintptr
	for i := 0; i < transfers; i++ {
		val = strand.Resume(s, val)
	}
	return time.Since(start), nil
}
