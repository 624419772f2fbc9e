// Package pool provides a fixed-size set of long-lived worker goroutines
// draining a shared FIFO queue of zero-argument tasks. The queue is
// multi-producer and unbounded, so tasks may safely enqueue further tasks
// into the same pool they run on.
package pool

import (
	"log/slog"
	"runtime"
	"sync"
)

// Task is a zero-argument unit of work. A task returns nothing to its
// submitter; results must flow through shared state the task sets up itself.
type Task func()

// Pool dispatches submitted tasks to a fixed number of workers. Tasks are
// dequeued in FIFO order, but execution across workers is concurrent and
// unordered.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []Task
	stopped bool

	workers int
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithLogger sets the logger used for worker lifecycle and panic reports.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		p.logger = logger
	}
}

// New creates a pool and starts its workers immediately. A non-positive
// worker count defaults to the host's hardware parallelism, and the pool
// always runs at least one worker.
func New(workers int, opts ...Option) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	p := &Pool{
		workers: workers,
		logger:  slog.Default(),
	}
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.workerLoop(i)
	}
	return p
}

// Submit enqueues a task for asynchronous execution. It is safe to call from
// any goroutine, including the pool's own workers. Submit returns false once
// Stop has been signaled; a rejected task is never run.
func (p *Pool) Submit(t Task) bool {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return false
	}
	p.tasks = append(p.tasks, t)
	p.mu.Unlock()

	p.cond.Signal()
	return true
}

// Stop signals shutdown, wakes every idle worker, and joins them all.
// Tasks already queued when Stop is called are still drained; tasks
// submitted afterwards are rejected. Safe to call more than once.
func (p *Pool) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.cond.Broadcast()
	p.wg.Wait()
}

// Workers returns the number of worker goroutines the pool was started with.
func (p *Pool) Workers() int {
	return p.workers
}

// workerLoop is the core processing loop for a single worker.
func (p *Pool) workerLoop(id int) {
	defer p.wg.Done()
	p.logger.Debug("Worker started.", "workerID", id)

	for {
		p.mu.Lock()
		for len(p.tasks) == 0 && !p.stopped {
			p.cond.Wait()
		}
		if len(p.tasks) == 0 && p.stopped {
			p.mu.Unlock()
			p.logger.Debug("Worker finished.", "workerID", id)
			return
		}
		t := p.tasks[0]
		p.tasks[0] = nil // release the slot for GC
		p.tasks = p.tasks[1:]
		p.mu.Unlock()

		p.runTask(id, t)
	}
}

// runTask executes one task, recovering panics so a failing task cannot
// take its worker down with it.
func (p *Pool) runTask(id int, t Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Task panicked.", "workerID", id, "panic", r)
		}
	}()
	t()
}
