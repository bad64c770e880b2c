// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workers

import (
	"sync"

	"go.uber.org/atomic"
)

var (
	_ Pool = (*parallel)(nil)
	_ Job  = (*parallelJob)(nil)
)

type task struct {
	job *parallelJob
	f   func() error
}

type parallel struct {
	size  int
	queue chan *parallelJob
	tasks chan task

	lock    sync.RWMutex
	stopped bool

	dispatched chan struct{}
	running    sync.WaitGroup
}

// NewParallel starts [size] goroutines that are reused across jobs. At most
// [maxJobs] jobs wait in the queue before NewJob blocks.
func NewParallel(size int, maxJobs int) Pool {
	if size < 1 {
		size = 1
	}
	p := &parallel{
		size:       size,
		queue:      make(chan *parallelJob, maxJobs),
		tasks:      make(chan task),
		dispatched: make(chan struct{}),
	}
	p.running.Add(size)
	for i := 0; i < size; i++ {
		go p.work()
	}
	go p.dispatch()
	return p
}

// dispatch feeds the tasks of one job at a time to the workers and reports
// the job result once all of them returned.
func (p *parallel) dispatch() {
	defer close(p.dispatched)
	for j := range p.queue {
		for f := range j.tasks {
			if j.failed() {
				continue
			}
			j.pending.Add(1)
			p.tasks <- task{job: j, f: f}
		}
		j.pending.Wait()
		j.result <- j.err.Load()
	}
}

func (p *parallel) work() {
	defer p.running.Done()
	for t := range p.tasks {
		if !t.job.failed() {
			if err := t.f(); err != nil {
				t.job.fail(err)
			}
		}
		t.job.pending.Done()
	}
}

func (p *parallel) NewJob(backlog int) (Job, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	if p.stopped {
		return nil, ErrStopped
	}
	j := &parallelJob{
		size:   p.size,
		tasks:  make(chan func() error, backlog),
		result: make(chan error, 1),
	}
	p.queue <- j
	return j, nil
}

// Stop finishes the queued jobs and then releases the workers. Every queued
// job must be marked Done for Stop to return.
func (p *parallel) Stop() {
	p.lock.Lock()
	if p.stopped {
		p.lock.Unlock()
		return
	}
	p.stopped = true
	close(p.queue)
	p.lock.Unlock()

	<-p.dispatched
	close(p.tasks)
	p.running.Wait()
}

type parallelJob struct {
	size    int
	tasks   chan func() error
	result  chan error
	pending sync.WaitGroup

	once sync.Once
	err  atomic.Error
}

func (j *parallelJob) Go(f func() error) { j.tasks <- f }

func (j *parallelJob) Done() { close(j.tasks) }

func (j *parallelJob) Wait() error { return <-j.result }

// Size is the number of goroutines the tasks are spread across.
func (j *parallelJob) Size() int { return j.size }

func (j *parallelJob) failed() bool { return j.err.Load() != nil }

func (j *parallelJob) fail(err error) {
	j.once.Do(func() { j.err.Store(err) })
}
