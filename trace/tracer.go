// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package trace builds the tracer that records RPC and action spans.
package trace

import (
	"context"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	DefaultEndpoint = "http://localhost:9411/api/v2/spans"

	exportTimeout   = 10 * time.Second
	shutdownTimeout = exportTimeout + 5*time.Second
)

type Config struct {
	Enabled bool `json:"enabled"`
	// Fraction of root spans kept, in [0, 1].
	SampleRate float64 `json:"sampleRate"`
	// Zipkin collector. Empty uses DefaultEndpoint.
	Endpoint    string `json:"endpoint"`
	ServiceName string `json:"serviceName"`
	Version     string `json:"version"`
}

type exporting struct {
	oteltrace.Tracer
	provider *sdktrace.TracerProvider
}

// Close flushes the spans still batched.
func (e *exporting) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.provider.Shutdown(ctx)
}

// New returns a tracer exporting to zipkin, or Noop when tracing is off.
func New(cfg *Config) (trace.Tracer, error) {
	if !cfg.Enabled {
		return Noop(cfg.ServiceName), nil
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	exporter, err := zipkin.New(endpoint)
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(exportTimeout)),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.ServiceName),
			attribute.String("version", cfg.Version),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
	)
	return &exporting{
		Tracer:   provider.Tracer(cfg.ServiceName),
		provider: provider,
	}, nil
}
