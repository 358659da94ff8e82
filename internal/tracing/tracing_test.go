package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therealutkarshpriyadarshi/vidmarks/internal/config"
)

func TestInitDisabled(t *testing.T) {
	closer, err := Init(config.TracingConfig{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
}

func TestSpanHelpers(t *testing.T) {
	tracer := mocktracer.New()
	prev := opentracing.GlobalTracer()
	opentracing.SetGlobalTracer(tracer)
	defer opentracing.SetGlobalTracer(prev)

	span, ctx := StartSpan(context.Background(), "catalog.load")
	assert.NotNil(t, opentracing.SpanFromContext(ctx))

	SetTag(span, "source", "remote")
	LogError(span, errors.New("status 404"))
	FinishSpan(span)

	finished := tracer.FinishedSpans()
	require.Len(t, finished, 1)
	assert.Equal(t, "catalog.load", finished[0].OperationName)
	assert.Equal(t, "remote", finished[0].Tag("source"))
	assert.Equal(t, true, finished[0].Tag("error"))
}

func TestNilSpanHelpers(t *testing.T) {
	FinishSpan(nil)
	LogError(nil, errors.New("ignored"))
	SetTag(nil, "k", "v")
}
