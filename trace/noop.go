// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"github.com/ava-labs/avalanchego/trace"

	oteltrace "go.opentelemetry.io/otel/trace"
)

var _ trace.Tracer = noop{}

type noop struct {
	oteltrace.Tracer
}

// Noop records nothing.
func Noop(name string) trace.Tracer {
	return noop{Tracer: oteltrace.NewNoopTracerProvider().Tracer(name)}
}

func (noop) Close() error { return nil }
