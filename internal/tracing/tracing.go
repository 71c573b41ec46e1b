// Package tracing carries an OpenTelemetry tracer through context and
// decorates spans with saved object attributes.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

// Span attribute keys.
const (
	AttrKeyObjectType = "savedobjects.type"
	AttrKeyObjectID   = "savedobjects.id"
	AttrKeyNamespace  = "savedobjects.namespace"
	AttrKeyErrorKind  = "savedobjects.error.kind"
	AttrKeyBatchSize  = "savedobjects.batch.size"
	AttrKeyWritePath  = "savedobjects.write.path"
)

type ctxKey struct{}

// TracerFromCtx returns the tracer set for the current context.
// If no tracer is set in ctx, a no-op tracer is returned.
func TracerFromCtx(ctx context.Context) trace.Tracer {
	tracer, ok := ctx.Value(ctxKey{}).(trace.Tracer)
	if !ok {
		return trace.NewNoopTracerProvider().Tracer("")
	}
	return tracer
}

// SetTracer returns a new context with the given tracer associated with it.
// A nil tracer stores a no-op tracer.
func SetTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	if tracer == nil {
		tracer = trace.NewNoopTracerProvider().Tracer("")
	}
	if existing, ok := ctx.Value(ctxKey{}).(trace.Tracer); ok && existing == tracer {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, tracer)
}

// Start is a shortcut for retrieving the context tracer and calling Start.
func Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return TracerFromCtx(ctx).Start(ctx, spanName, opts...)
}

// ObjectAttributes returns the span attributes naming one saved object.
func ObjectAttributes(typ, id, namespace string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrKeyObjectType, typ),
		attribute.String(AttrKeyObjectID, id),
		attribute.String(AttrKeyNamespace, types.NamespaceIDToString(namespace)),
	}
}

// SetSpanError records err on the span in ctx. A nil err leaves the span
// untouched.
func SetSpanError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String(AttrKeyErrorKind, string(types.KindOf(err))))
	span.SetStatus(codes.Error, err.Error())
}
