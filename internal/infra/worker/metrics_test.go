package worker

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Registered once; promauto panics on duplicate registration.
var testMetrics = NewMetrics()

func counterValue(t *testing.T, m *Metrics, status string) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, m.RunsTotal.WithLabelValues(status).Write(&metric))
	return metric.GetCounter().GetValue()
}

func TestMetrics_RecordRun(t *testing.T) {
	before := counterValue(t, testMetrics, "success")
	testMetrics.RecordRun("success")
	testMetrics.RecordRun("success")
	assert.Equal(t, before+2, counterValue(t, testMetrics, "success"))

	beforeFail := counterValue(t, testMetrics, "failure")
	testMetrics.RecordRun("failure")
	assert.Equal(t, beforeFail+1, counterValue(t, testMetrics, "failure"))
}

func TestMetrics_Gauges(t *testing.T) {
	testMetrics.SetFeedsConfigured(8)

	var metric dto.Metric
	require.NoError(t, testMetrics.FeedsConfigured.Write(&metric))
	assert.Equal(t, float64(8), metric.GetGauge().GetValue())

	assert.NotPanics(t, func() {
		testMetrics.RecordRunDuration(42.5)
		testMetrics.RecordLastSuccess()
	})
}
