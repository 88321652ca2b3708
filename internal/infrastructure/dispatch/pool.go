// Package dispatch runs background tasks with bounded worker concurrency.
package dispatch

import "sync"

// Pool is a fixed set of workers draining a task queue. Dispatch never
// blocks the caller: when the queue is full the task runs on its own
// goroutine instead, preserving fire-and-forget semantics under load.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	closeMu sync.Mutex
	closed  bool
}

func NewPool(workers, queueDepth int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueDepth < 0 {
		queueDepth = 0
	}

	p := &Pool{tasks: make(chan func(), queueDepth)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
	return p
}

func (p *Pool) Dispatch(task func()) {
	if task == nil {
		return
	}

	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		go task()
		return
	}
	select {
	case p.tasks <- task:
		p.closeMu.Unlock()
	default:
		p.closeMu.Unlock()
		go task()
	}
}

// Close stops accepting queued work and waits for the workers to drain.
// Tasks dispatched after Close still run, on detached goroutines.
func (p *Pool) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.closeMu.Unlock()

	p.wg.Wait()
}
