package compute

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type CPUBackend struct {
	workers int
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string { return "cpu" }
func (c *CPUBackend) Workers() int { return c.workers }

func (c *CPUBackend) Rows(ctx context.Context, n int, fn func(row int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for row := 0; row < n; row++ {
		if gctx.Err() != nil {
			break
		}
		row := row
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(row)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// Rows skipped by the loop above leave no error in the group.
	return ctx.Err()
}

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string { return "serial" }

func (s *SerialBackend) Rows(ctx context.Context, n int, fn func(row int)) error {
	for row := 0; row < n; row++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(row)
	}
	return nil
}
