package compute

import (
	"context"
	"runtime"
)

type Backend interface {
	Name() string
	// Rows calls fn exactly once for every row in [0, n) and blocks until
	// all calls returned. fn must only touch state owned by its row.
	Rows(ctx context.Context, n int, fn func(row int)) error
}

// AutoSelect picks the CPU backend for workers > 1 (or workers <= 0,
// meaning one per CPU) and the serial backend otherwise.
func AutoSelect(workers int) Backend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 {
		return NewSerialBackend()
	}
	return NewCPUBackend(workers)
}
