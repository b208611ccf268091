// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

package otelsetup

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/andrewkroh/go-github-api/api"
)

// Log attribute keys added by ContextHandler.
const (
	traceIDKey   = "trace.id"
	spanIDKey    = "span.id"
	requestIDKey = "github.request.id"
)

// ContextHandler wraps a slog.Handler and stamps each record with the
// correlation ids carried by its context: the active span and the GitHub
// API request in flight.
type ContextHandler struct {
	next slog.Handler
}

// NewContextHandler returns a ContextHandler that writes to next.
func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs := contextAttrs(ctx); len(attrs) > 0 {
		record = record.Clone()
		record.AddAttrs(attrs...)
	}
	return h.next.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewContextHandler(h.next.WithAttrs(attrs))
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return NewContextHandler(h.next.WithGroup(name))
}

func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String(traceIDKey, sc.TraceID().String()),
			slog.String(spanIDKey, sc.SpanID().String()),
		)
	}
	if id, ok := api.RequestIDFromContext(ctx); ok {
		attrs = append(attrs, slog.String(requestIDKey, id))
	}
	return attrs
}
