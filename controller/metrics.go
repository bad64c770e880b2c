// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/phoenixvm/consts"

	ametrics "github.com/ava-labs/avalanchego/api/metrics"
)

type metrics struct {
	submitted prometheus.Counter
	rejected  prometheus.Counter
	duplicate prometheus.Counter

	actions      *prometheus.CounterVec
	failures     *prometheus.CounterVec
	stateChanges prometheus.Counter
	subscribers  prometheus.Gauge

	execute metric.Averager
}

func newMetrics(gatherer ametrics.MultiGatherer) (*metrics, error) {
	r := prometheus.NewRegistry()
	execute, err := metric.NewAverager(
		"controller_execute",
		"time spent executing an action",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &metrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "controller",
			Name:      "submitted",
			Help:      "number of submissions received",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "controller",
			Name:      "rejected",
			Help:      "number of submissions that failed verification or parsing",
		}),
		duplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "controller",
			Name:      "duplicate",
			Help:      "number of replayed submissions",
		}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "executed",
			Help:      "number of executed actions",
		}, []string{"action"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "failed",
			Help:      "number of actions that returned an error",
		}, []string{"action"}),
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "controller",
			Name:      "state_changes",
			Help:      "number of keys written by successful actions",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "controller",
			Name:      "subscribers",
			Help:      "number of connected event subscribers",
		}),
		execute: execute,
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.submitted),
		r.Register(m.rejected),
		r.Register(m.duplicate),
		r.Register(m.actions),
		r.Register(m.failures),
		r.Register(m.stateChanges),
		r.Register(m.subscribers),
		gatherer.Register(consts.Name, r),
	)
	return m, errs.Err
}
