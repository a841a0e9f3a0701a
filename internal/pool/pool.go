// Package pool runs jobs on a fixed number of goroutines.
package pool

import "sync"

type Pool struct {
	workers int
	jobCh   chan func()
	wg      sync.WaitGroup
	once    sync.Once
}

// New returns a Pool of workerCount goroutines reading from a job queue
// of size jobChanSize. Start must be called before jobs run.
func New(workerCount int, jobChanSize int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}

	return &Pool{
		workers: workerCount,
		jobCh:   make(chan func(), jobChanSize),
	}
}

func (p *Pool) Start() {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobCh {
				job()
			}
		}()
	}
}

// Add queues f. It blocks while the queue is full. Add must not be
// called after Stop.
func (p *Pool) Add(f func()) {
	p.jobCh <- f
}

// Stop closes the queue and waits for the queued jobs to finish.
func (p *Pool) Stop() {
	p.once.Do(func() {
		close(p.jobCh)
	})
	p.wg.Wait()
}

func (p *Pool) Workers() int {
	return p.workers
}
