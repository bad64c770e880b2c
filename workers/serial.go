// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workers

var (
	_ Pool = (*serial)(nil)
	_ Job  = (*serialJob)(nil)
)

type serial struct{}

// NewSerial runs every task on the caller's goroutine.
func NewSerial() Pool { return serial{} }

func (serial) NewJob(int) (Job, error) { return &serialJob{}, nil }

func (serial) Stop() {}

type serialJob struct {
	err error
}

func (j *serialJob) Go(f func() error) {
	if j.err != nil {
		return
	}
	j.err = f()
}

func (*serialJob) Done() {}

func (j *serialJob) Wait() error { return j.err }

func (*serialJob) Size() int { return 1 }
