// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workers

import (
	"context"
	"errors"
	"math/big"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/neilotoole/errgroup"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"
)

var errTest = errors.New("test")

func pools() map[string]func() Pool {
	return map[string]func() Pool{
		"parallel": func() Pool { return NewParallel(4, 16) },
		"serial":   NewSerial,
	}
}

func TestMap(t *testing.T) {
	for name, newPool := range pools() {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			p := newPool()
			defer p.Stop()

			out := make([]int, 100)
			require.NoError(Map(context.Background(), p, len(out), func(i int) error {
				out[i] = i * i
				return nil
			}))
			for i, v := range out {
				require.Equal(i*i, v)
			}
		})
	}
}

func TestMapError(t *testing.T) {
	for name, newPool := range pools() {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			p := newPool()
			defer p.Stop()

			var calls atomic.Int64
			err := Map(context.Background(), p, 50, func(i int) error {
				calls.Inc()
				if i == 10 {
					return errTest
				}
				return nil
			})
			require.ErrorIs(err, errTest)
			require.LessOrEqual(calls.Load(), int64(50))

			// The pool is still usable after a failed job.
			require.NoError(Map(context.Background(), p, 5, func(int) error { return nil }))
		})
	}
}

func TestMapCanceled(t *testing.T) {
	for name, newPool := range pools() {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			p := newPool()
			defer p.Stop()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			var calls atomic.Int64
			err := Map(ctx, p, 10, func(int) error {
				calls.Inc()
				return nil
			})
			require.ErrorIs(err, context.Canceled)
			require.Zero(calls.Load())
		})
	}
}

func TestSerialStopsAtFirstError(t *testing.T) {
	require := require.New(t)
	job, err := NewSerial().NewJob(0)
	require.NoError(err)

	calls := 0
	job.Go(func() error { calls++; return errTest })
	job.Go(func() error { calls++; return nil })
	job.Done()
	require.ErrorIs(job.Wait(), errTest)
	require.Equal(1, calls)
	require.Equal(1, job.Size())
}

func TestParallelJobsInOrder(t *testing.T) {
	require := require.New(t)
	p := NewParallel(3, 100)

	var (
		lock sync.Mutex
		val  int
		jobs []Job
	)
	for i := 0; i < 100; i++ {
		job, err := p.NewJob(10)
		require.NoError(err)
		require.Equal(3, job.Size())
		for j := 0; j < 10; j++ {
			job.Go(func() error {
				lock.Lock()
				defer lock.Unlock()
				val++
				return nil
			})
		}
		job.Done()
		jobs = append(jobs, job)
	}
	for _, job := range jobs {
		require.NoError(job.Wait())
	}
	p.Stop()
	require.Equal(1_000, val)
}

func TestParallelStop(t *testing.T) {
	require := require.New(t)
	p := NewParallel(5, 10)

	var finished atomic.Int64
	job, err := p.NewJob(5)
	require.NoError(err)
	for i := 0; i < 5; i++ {
		job.Go(func() error {
			time.Sleep(50 * time.Millisecond)
			finished.Inc()
			return nil
		})
	}
	job.Done()

	// Queued work completes before Stop returns.
	p.Stop()
	require.Equal(int64(5), finished.Load())
	require.NoError(job.Wait())

	_, err = p.NewJob(1)
	require.ErrorIs(err, ErrStopped)

	// Stopping twice is a no-op.
	p.Stop()
}

func TestNewParallelMinimumSize(t *testing.T) {
	require := require.New(t)
	p := NewParallel(0, 1)
	defer p.Stop()

	job, err := p.NewJob(1)
	require.NoError(err)
	require.Equal(1, job.Size())
	job.Done()
	require.NoError(job.Wait())
}

// Bench: go test -bench=. -benchtime=10000x -benchmem
func benchmarkCores() int {
	return max(runtime.NumCPU()-1, 1)
}

func hashIndex(i int) {
	hashing.ComputeHash256(big.NewInt(int64(i)).Bytes())
}

func BenchmarkParallel(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(strconv.Itoa(size), func(b *testing.B) {
			p := NewParallel(benchmarkCores(), 1_000)
			defer p.Stop()
			for n := 0; n < b.N; n++ {
				_ = Map(context.Background(), p, size, func(i int) error {
					hashIndex(i)
					return nil
				})
			}
		})
	}
}

func BenchmarkErrGroup(b *testing.B) {
	cores := benchmarkCores()
	for _, size := range []int{10, 100, 1000} {
		b.Run(strconv.Itoa(size), func(b *testing.B) {
			for n := 0; n < b.N; n++ {
				g, _ := errgroup.WithContextN(context.Background(), cores, cores*4)
				for i := 0; i < size; i++ {
					i := i
					g.Go(func() error {
						hashIndex(i)
						return nil
					})
				}
				_ = g.Wait()
			}
		})
	}
}

func BenchmarkSemaphore(b *testing.B) {
	cores := benchmarkCores()
	for _, size := range []int{10, 100, 1000} {
		b.Run(strconv.Itoa(size), func(b *testing.B) {
			sm := semaphore.NewWeighted(int64(cores))
			for n := 0; n < b.N; n++ {
				var wg sync.WaitGroup
				for i := 0; i < size; i++ {
					_ = sm.Acquire(context.Background(), 1)
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						defer sm.Release(1)
						hashIndex(i)
					}(i)
				}
				wg.Wait()
			}
		})
	}
}
