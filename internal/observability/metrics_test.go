package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.RunsTotal.WithLabelValues("success").Inc()
	a.Issues.WithLabelValues("join_mismatch").Add(2)

	assert.InDelta(t, 1.0, testutil.ToFloat64(a.RunsTotal.WithLabelValues("success")), 0)
	assert.InDelta(t, 2.0, testutil.ToFloat64(a.Issues.WithLabelValues("join_mismatch")), 0)
	assert.InDelta(t, 0.0, testutil.ToFloat64(b.RunsTotal.WithLabelValues("success")), 0)
}
