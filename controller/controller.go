// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package controller owns the state database and executes signed
// submissions against it one at a time.
package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/ava-labs/phoenixvm/actions"
	"github.com/ava-labs/phoenixvm/chain"
	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/config"
	"github.com/ava-labs/phoenixvm/emap"
	"github.com/ava-labs/phoenixvm/genesis"
	"github.com/ava-labs/phoenixvm/pubsub"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/storage"
	"github.com/ava-labs/phoenixvm/trace"
	"github.com/ava-labs/phoenixvm/workers"

	ametrics "github.com/ava-labs/avalanchego/api/metrics"
	atrace "github.com/ava-labs/avalanchego/trace"
)

const maxSimulationJobs = 128

type Controller struct {
	log     logging.Logger
	config  *config.Config
	tracer  atrace.Tracer
	metrics *metrics

	db      state.Database
	rt      *actions.Runtime
	events  *pubsub.Server
	seen    *emap.EMap[*chain.Submission]
	workers workers.Pool
	clock   mockable.Clock

	// execution is serialized so every action observes the writes of the
	// one before it
	lock     sync.Mutex
	closed   atomic.Bool
	executed atomic.Uint64
}

// New returns a controller over [db]. The controller takes ownership of
// [db] and closes it on Close.
func New(
	log logging.Logger,
	cfg *config.Config,
	db state.Database,
	tracer atrace.Tracer,
	gatherer ametrics.MultiGatherer,
) (*Controller, error) {
	m, err := newMetrics(gatherer)
	if err != nil {
		return nil, err
	}
	rt, err := actions.NewRuntime(log, cfg.TokenCacheSize)
	if err != nil {
		return nil, err
	}
	return &Controller{
		log:     log,
		config:  cfg,
		tracer:  tracer,
		metrics: m,
		db:      db,
		rt:      rt,
		events:  pubsub.New(log, cfg.GetPubSubConfig()),
		seen:    emap.NewEMap[*chain.Submission](),
		workers: newPool(cfg.SimulationCores),
	}, nil
}

// InitializeGenesis applies [g] if the state is empty. A state that was
// initialized from a different genesis is rejected.
func (c *Controller) InitializeGenesis(ctx context.Context, g *genesis.Genesis, id ids.ID) error {
	ctx, span := c.tracer.Start(ctx, "Controller.InitializeGenesis")
	defer span.End()

	c.lock.Lock()
	defer c.lock.Unlock()

	applied, ok, err := storage.GetGenesisID(ctx, c.db)
	if err != nil {
		return err
	}
	if ok {
		if applied != id {
			return fmt.Errorf("%w: state has %s, got %s", ErrGenesisMismatch, applied, id)
		}
		c.log.Info("genesis already applied", zap.Stringer("id", id))
		return nil
	}
	mu := state.NewSimpleMutable(c.db)
	if err := g.InitializeState(ctx, c.tracer, c.log, mu, chain.Seconds(c.Now()), c.rt); err != nil {
		return err
	}
	if err := storage.SetGenesisID(ctx, mu, id); err != nil {
		return err
	}
	changes := mu.Len()
	if err := mu.Commit(ctx); err != nil {
		return err
	}
	c.log.Info("applied genesis",
		zap.Stringer("id", id),
		zap.Int("tokens", len(g.Tokens)),
		zap.Int("pools", len(g.Pools)),
		zap.Int("changes", changes),
	)
	return nil
}

// Submit verifies [s] and executes its action. The returned result is
// non-nil whenever the action ran, including when it failed.
func (c *Controller) Submit(ctx context.Context, s *chain.Submission) (result *chain.Result, err error) {
	ctx, span := c.tracer.Start(ctx, "Controller.Submit")
	defer func() {
		trace.Fail(span, err)
		span.End()
	}()

	if c.closed.Load() {
		return nil, ErrClosed
	}
	c.metrics.submitted.Inc()

	now := c.Now()
	if err := s.Verify(now, c.config.SubmissionWindow.Milliseconds()); err != nil {
		c.metrics.rejected.Inc()
		return nil, err
	}
	trace.Submission(span, s.ID(), actions.Name(s.TypeID), s.Actor())
	action, err := c.rt.Parse(s.TypeID, s.Action)
	if err != nil {
		c.metrics.rejected.Inc()
		return nil, err
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	c.seen.SetMin(now)
	if !c.seen.Add(s) {
		c.metrics.duplicate.Inc()
		return nil, fmt.Errorf("%w: %s", chain.ErrDuplicate, s.ID())
	}
	return c.execute(ctx, s.ID(), s.Actor(), action, now)
}

// execute must be called with the lock held.
func (c *Controller) execute(
	ctx context.Context,
	id ids.ID,
	actor codec.Address,
	action chain.Action,
	now int64,
) (*chain.Result, error) {
	name := actions.Name(action.GetTypeID())
	start := time.Now()
	result, err := chain.Execute(ctx, c.db, action, now, actor)
	c.metrics.execute.Observe(float64(time.Since(start)))
	if result == nil {
		return nil, err
	}
	c.executed.Inc()
	c.metrics.actions.WithLabelValues(name).Inc()
	if err != nil {
		c.metrics.failures.WithLabelValues(name).Inc()
		c.log.Debug("action failed",
			zap.Stringer("id", id),
			zap.String("action", name),
			zap.Stringer("actor", actor),
			zap.Error(err),
		)
	} else {
		c.metrics.stateChanges.Add(float64(result.Changes))
	}
	c.publish(&chain.Event{
		ID:        id,
		Actor:     actor,
		Action:    name,
		Timestamp: now,
		Result:    result,
	})
	return result, err
}

func (c *Controller) publish(e *chain.Event) {
	b, err := json.Marshal(e)
	if err != nil {
		c.log.Warn("unable to encode event",
			zap.Stringer("id", e.ID),
			zap.Error(err),
		)
		return
	}
	c.events.Publish(e.Action, b)
	c.metrics.subscribers.Set(float64(c.events.Subscribers()))
}

// State is a read-only view of the committed state.
func (c *Controller) State() state.Immutable { return c.db }

func (c *Controller) Runtime() *actions.Runtime { return c.rt }

func (c *Controller) Tracer() atrace.Tracer { return c.tracer }

func (c *Controller) Workers() workers.Pool { return c.workers }

func (c *Controller) Events() *pubsub.Server { return c.events }

// Now returns the controller time in unix milliseconds.
func (c *Controller) Now() int64 { return c.clock.Time().UnixMilli() }

// Executed returns the number of actions run since startup.
func (c *Controller) Executed() uint64 { return c.executed.Load() }

// Close stops accepting submissions and closes the state database.
func (c *Controller) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.lock.Lock()
	defer c.lock.Unlock()

	c.events.Close()
	c.workers.Stop()
	return c.db.Close()
}

func newPool(cores int) workers.Pool {
	if cores <= 1 {
		return workers.NewSerial()
	}
	return workers.NewParallel(cores, maxSimulationJobs)
}
