// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package workers runs batches of independent tasks, such as swap
// simulations against a shared state view, on a fixed set of goroutines.
package workers

import (
	"context"
	"errors"
)

var ErrStopped = errors.New("workers stopped")

// Pool processes jobs in the order they were created. The tasks of a job are
// spread across the pool.
type Pool interface {
	NewJob(backlog int) (Job, error)
	Stop()
}

// Job collects tasks until Done is called. Once a task fails the remaining
// tasks of the job are skipped and Wait returns the first error.
type Job interface {
	Go(func() error)
	Done()
	Wait() error
	Size() int
}

// Map runs f for every index in [0, n) on p and waits for them.
func Map(ctx context.Context, p Pool, n int, f func(i int) error) error {
	job, err := p.NewJob(n)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		i := i
		job.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return f(i)
		})
	}
	job.Done()
	return job.Wait()
}
