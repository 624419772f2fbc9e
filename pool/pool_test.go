package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToHostParallelism(t *testing.T) {
	p := New(0)
	defer p.Stop()
	assert.GreaterOrEqual(t, p.Workers(), 1)

	neg := New(-3)
	defer neg.Stop()
	assert.GreaterOrEqual(t, neg.Workers(), 1)
}

func TestSubmitRunsEveryTask(t *testing.T) {
	p := New(4)

	const n = 200
	var ran atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		ok := p.Submit(func() {
			ran.Add(1)
			wg.Done()
		})
		require.True(t, ok)
	}
	wg.Wait()
	p.Stop()

	assert.Equal(t, int64(n), ran.Load())
}

func TestSingleWorkerPreservesFIFOOrder(t *testing.T) {
	p := New(1)

	const n = 50
	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		p.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()
	p.Stop()

	require.Len(t, order, n)
	for i, got := range order {
		assert.Equal(t, i, got)
	}
}

func TestSubmitFromWorkerDoesNotDeadlock(t *testing.T) {
	p := New(1)
	defer p.Stop()

	done := make(chan struct{})
	ok := p.Submit(func() {
		// A task enqueuing into its own pool must not block the worker.
		p.Submit(func() { close(done) })
	})
	require.True(t, ok)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("recursively submitted task never ran")
	}
}

func TestStopDrainsQueuedTasks(t *testing.T) {
	p := New(1)

	gate := make(chan struct{})
	var ran atomic.Int64
	p.Submit(func() {
		<-gate
		ran.Add(1)
	})
	for i := 0; i < 10; i++ {
		require.True(t, p.Submit(func() { ran.Add(1) }))
	}

	close(gate)
	p.Stop()

	assert.Equal(t, int64(11), ran.Load())
}

func TestSubmitAfterStopIsRejected(t *testing.T) {
	p := New(2)
	p.Stop()

	var ran atomic.Bool
	ok := p.Submit(func() { ran.Store(true) })
	assert.False(t, ok)

	// Give a rogue run a chance to show up before asserting it never happened.
	time.Sleep(20 * time.Millisecond)
	assert.False(t, ran.Load())
}

func TestStopIsIdempotent(t *testing.T) {
	p := New(2)
	p.Stop()
	assert.NotPanics(t, func() { p.Stop() })
}

func TestPanickingTaskDoesNotKillWorker(t *testing.T) {
	p := New(1)
	defer p.Stop()

	p.Submit(func() { panic("boom") })

	done := make(chan struct{})
	require.True(t, p.Submit(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not survive a panicking task")
	}
}
