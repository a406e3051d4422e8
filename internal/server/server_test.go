package server

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingReconciler struct {
	calls atomic.Int64
}

func (r *countingReconciler) ReconcileEdges(ctx context.Context) (int, error) {
	r.calls.Add(1)
	return 0, nil
}

func TestReconcileLoopRunsUntilStopped(t *testing.T) {
	reconciler := &countingReconciler{}
	done := startReconcileLoop(reconciler, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return reconciler.calls.Load() > 0
	}, time.Second, 5*time.Millisecond)

	close(done)

	// At most one tick can already be in flight when the channel closes.
	settled := reconciler.calls.Load() + 1
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, reconciler.calls.Load(), settled)
}
