package telemetry

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), &config.Config{OtelEnabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampleRatio(t *testing.T) {
	assert.Equal(t, 0.0, SampleRatio(-0.5))
	assert.Equal(t, 0.25, SampleRatio(0.25))
	assert.Equal(t, 1.0, SampleRatio(3))
}

func TestExporterOptions(t *testing.T) {
	assert.Empty(t, exporterOptions(&config.Config{}))
	assert.Len(t, exporterOptions(&config.Config{OtelEndpoint: "collector:4318", OtelInsecure: true}), 2)
	assert.Len(t, exporterOptions(&config.Config{OtelEndpoint: "https://otel.example.com/v1/traces"}), 1)
}
