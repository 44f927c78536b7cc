package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_EmptyEndpointUsesNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), "sendmsg-test", "", false)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestTracer_ReturnsUsableTracer(t *testing.T) {
	_, err := Init(context.Background(), "sendmsg-test", "", false)
	require.NoError(t, err)

	tr := Tracer("dispatch")
	require.NotNil(t, tr)

	_, span := tr.Start(context.Background(), "test-span")
	assert.NotPanics(t, func() { span.End() })
}
