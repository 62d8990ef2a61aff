package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/config"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(config.ProfilingConfig{}, "storefront", nil)
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresServerAddress(t *testing.T) {
	_, err := NewProfiler(config.ProfilingConfig{Enabled: true}, "storefront", zap.NewNop())
	assert.ErrorIs(t, err, ErrProfilerAddressRequired)
}

func TestProvider_EnableSpanProfiles(t *testing.T) {
	disabled := &Provider{logger: zap.NewNop()}
	disabled.EnableSpanProfiles()
	assert.Nil(t, disabled.profiled)

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	p := &Provider{tracer: tp, logger: zap.NewNop()}
	p.EnableSpanProfiles()

	_, plain := p.TracerProvider().(*sdktrace.TracerProvider)
	assert.False(t, plain, "tracer provider should be wrapped for span profiles")
	assert.Equal(t, p.profiled, otel.GetTracerProvider())
	assert.NotNil(t, p.Tracer("orders"))
}
