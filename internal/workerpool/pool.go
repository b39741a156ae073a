// Package workerpool runs deferred tasks on a fixed set of long-lived
// workers fed from a lock-free queue. Submitted work is observable through
// a Handle; the pool makes no ordering promise across workers, only that
// each submitted task runs at most once and, absent shutdown, exactly once.
package workerpool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"storewatch-worker-go/internal/taskqueue"
)

// ErrPoolClosed is returned by Submit once Shutdown has begun. The
// rejected task is never enqueued and never runs.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a unit of deferred work. The returned value and error are
// surfaced through the task's Handle.
type Task func() (any, error)

// Handle exposes the eventual outcome of a submitted task.
type Handle struct {
	done  chan struct{}
	value any
	err   error
}

// Result blocks until the task has run, then returns its value and error.
// Repeated calls return the same cached outcome.
func (h *Handle) Result() (any, error) {
	<-h.done
	return h.value, h.err
}

// Done returns a channel that is closed once the task has run.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

type job struct {
	task   Task
	handle *Handle
}

// Pool executes tasks on a fixed number of workers. Workers sleep on a
// condition variable while the queue is empty and survive task failures.
type Pool struct {
	queue   *taskqueue.Queue[*job]
	mu      sync.Mutex
	cond    *sync.Cond
	stopped bool
	wg      sync.WaitGroup
	workers int
}

// New starts a pool with n workers. n must be positive.
func New(n int) *Pool {
	if n <= 0 {
		panic(fmt.Sprintf("workerpool: invalid worker count %d", n))
	}

	p := &Pool{
		queue:   taskqueue.New[*job](),
		workers: n,
	}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker(i)
	}

	log.Debug().Int("workers", n).Msg("Worker pool started")
	return p
}

// Submit enqueues task and returns a handle to its eventual result. After
// Shutdown it fails with ErrPoolClosed.
func (p *Pool) Submit(task Task) (*Handle, error) {
	h := &Handle{done: make(chan struct{})}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.queue.Push(&job{task: task, handle: h})
	p.mu.Unlock()

	p.cond.Signal()
	return h, nil
}

// Pending reports the approximate number of tasks waiting to be picked up.
func (p *Pool) Pending() int {
	return p.queue.Len()
}

// Workers reports the fixed worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Shutdown stops accepting new tasks, wakes every idle worker and blocks
// until all workers have drained the queue and exited. It is safe to call
// more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.cond.Broadcast()
	p.wg.Wait()
	log.Debug().Int("workers", p.workers).Msg("Worker pool stopped")
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for p.queue.Empty() && !p.stopped {
			p.cond.Wait()
		}
		if p.stopped && p.queue.Empty() {
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()

		// Pop can still lose the race to a sibling worker; loop back to
		// the wait in that case.
		j, ok := p.queue.Pop()
		if !ok {
			continue
		}
		p.execute(id, j)
	}
}

func (p *Pool) execute(id int, j *job) {
	defer close(j.handle.done)
	defer func() {
		if r := recover(); r != nil {
			j.handle.err = fmt.Errorf("task panicked: %v", r)
			log.Error().Int("worker_id", id).Interface("panic", r).Msg("Worker task panicked")
		}
	}()

	v, err := j.task()
	j.handle.value = v
	j.handle.err = err
	if err != nil {
		log.Warn().Int("worker_id", id).Err(err).Msg("Worker task failed")
	}
}
