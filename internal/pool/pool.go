// Package pool implements a fixed-size worker pool with an unbounded FIFO
// queue and future-style result handles. Page extraction tasks are short
// and uniform, so a plain condition-variable queue beats anything fancier.
package pool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

var (
	// ErrStopped is returned when submitting to a pool after Shutdown.
	ErrStopped = errors.New("pool: submit after shutdown")

	// ErrTaskPanic wraps a panic recovered at the task boundary.
	ErrTaskPanic = errors.New("pool: task panicked")
)

// Pool runs submitted closures on a fixed set of worker goroutines.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	stopped bool

	wg      sync.WaitGroup
	active  atomic.Int64
	workers int
}

// New starts a pool with the given number of workers. A count <= 0 uses
// runtime.NumCPU.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{workers: workers}
	p.cond = sync.NewCond(&p.mu)
	for range workers {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.stopped {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			// stopped and drained
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.active.Add(1)
		task()
		p.active.Add(-1)
	}
}

// enqueue appends a closure to the queue. Producers never block beyond the
// queue lock itself.
func (p *Pool) enqueue(task func()) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrStopped
	}
	p.queue = append(p.queue, task)
	p.mu.Unlock()
	p.cond.Signal()
	return nil
}

// Shutdown stops accepting work, lets queued tasks finish and waits for all
// workers to exit. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.stopped = true
	p.mu.Unlock()
	p.cond.Broadcast()
	p.wg.Wait()
}

// QueueDepth reports the number of tasks waiting for a worker.
func (p *Pool) QueueDepth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Active reports the number of tasks currently executing.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Workers reports the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Future resolves to the result of a submitted task.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Result blocks until the task has run and returns its value and error.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.val, f.err
}

// Submit queues fn on the pool and returns a handle to its eventual result.
// A panic inside fn resolves the future with an ErrTaskPanic error instead
// of taking the worker down.
func Submit[T any](p *Pool, fn func() (T, error)) (*Future[T], error) {
	f := &Future[T]{done: make(chan struct{})}
	err := p.enqueue(func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
			}
		}()
		f.val, f.err = fn()
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}
