package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordAfterInit(t *testing.T) {
	reg := prometheus.NewRegistry()
	Init(reg)
	Init(reg)

	ObserveOperation("invoice_value", ResultNoData, 2*time.Millisecond)
	IncGridReset("record")
	AddConsumptionUpdates("simulated", 24)
	AddConsumptionUpdates("simulated", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(operationTotal.WithLabelValues("invoice_value", ResultNoData)))
	assert.Equal(t, 1.0, testutil.ToFloat64(gridResets.WithLabelValues("record")))
	assert.Equal(t, 24.0, testutil.ToFloat64(consumptionUpdates.WithLabelValues("simulated")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
