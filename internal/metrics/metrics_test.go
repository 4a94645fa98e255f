package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRegistryIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()
	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Same(t, first, GetRegistry())
}

func TestCountersRegistered(t *testing.T) {
	InitRegistry()

	PredictionsTotal.Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(PredictionsTotal), 1.0)

	SimulationsTotal.Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(SimulationsTotal), 1.0)
}

func TestGauges(t *testing.T) {
	InitRegistry()

	TrackedTeams.Set(42)
	assert.Equal(t, 42.0, testutil.ToFloat64(TrackedTeams))

	PredictionAccuracy.Set(0.55)
	assert.Equal(t, 0.55, testutil.ToFloat64(PredictionAccuracy))
}
