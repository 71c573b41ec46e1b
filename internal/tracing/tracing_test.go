package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

func TestTracerFromCtxDefaultsToNoop(t *testing.T) {
	ctx, span := Start(context.Background(), "noop")
	defer span.End()
	assert.NotNil(t, ctx)
	assert.False(t, span.SpanContext().IsValid())
}

func TestSetTracer(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	ctx := SetTracer(context.Background(), tracer)
	assert.Equal(t, tracer, TracerFromCtx(ctx))
	// Setting the same tracer twice keeps the context.
	assert.Equal(t, ctx, SetTracer(ctx, tracer))

	ctx, span := Start(ctx, "get")
	span.SetAttributes(ObjectAttributes("dashboard", "d1", "")...)
	SetSpanError(ctx, types.NewNotFoundError("dashboard", "d1"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "get", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "dashboard", attrs[AttrKeyObjectType])
	assert.Equal(t, "d1", attrs[AttrKeyObjectID])
	assert.Equal(t, "default", attrs[AttrKeyNamespace])
	assert.Equal(t, string(types.KindNotFound), attrs[AttrKeyErrorKind])
}

func TestSetSpanErrorNil(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	ctx, span := Start(SetTracer(context.Background(), provider.Tracer("test")), "ok")
	SetSpanError(ctx, nil)
	span.End()

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, codes.Unset, recorder.Ended()[0].Status().Code)
}

func TestNewFileProvider(t *testing.T) {
	provider, err := NewFileProvider("")
	require.NoError(t, err)
	assert.Nil(t, provider)

	path := filepath.Join(t.TempDir(), "trace.json")
	provider, err = NewFileProvider(path)
	require.NoError(t, err)
	require.NotNil(t, provider)

	_, span := Start(SetTracer(context.Background(), provider.Tracer("test")), "create")
	span.End()
	require.NoError(t, provider.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Name":"create"`)
}
