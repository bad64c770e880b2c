// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"github.com/ava-labs/avalanchego/ids"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/phoenixvm/codec"
)

const (
	submissionKey = attribute.Key("phoenixvm.submission")
	actionKey     = attribute.Key("phoenixvm.action")
	actorKey      = attribute.Key("phoenixvm.actor")
	poolKey       = attribute.Key("phoenixvm.pool")
)

// Submission tags a span with the submission it handles.
func Submission(span oteltrace.Span, id ids.ID, action string, actor codec.Address) {
	span.SetAttributes(
		submissionKey.String(id.String()),
		actionKey.String(action),
		actorKey.String(actor.String()),
	)
}

func Pool(span oteltrace.Span, pool codec.Address) {
	span.SetAttributes(poolKey.String(pool.String()))
}

// Fail marks a span as failed with [err]. A nil error is ignored.
func Fail(span oteltrace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
