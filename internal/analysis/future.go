package analysis

import (
	"context"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// Future is the handle of an analysis running in the background.
type Future struct {
	done   chan struct{}
	cancel context.CancelFunc
	res    *Result
	err    error
}

// Submit starts Run in a goroutine. Cancelling ctx, or calling Cancel,
// stops the run at the next cell boundary and discards its result.
func Submit(ctx context.Context, ds *dataset.Dataset, kind Kind, p Params, progress dataset.ProgressFunc) *Future {
	ctx, cancel := context.WithCancel(ctx)
	f := &Future{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(f.done)
		defer cancel()
		f.res, f.err = Run(ctx, ds, kind, p, progress)
	}()
	return f
}

// Done is closed once the run has finished.
func (f *Future) Done() <-chan struct{} { return f.done }

// Cancel asks the run to stop.
func (f *Future) Cancel() { f.cancel() }

// Wait blocks until the run finishes or ctx is done. Giving up on the wait
// does not cancel the run.
func (f *Future) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-f.done:
		return f.res, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
