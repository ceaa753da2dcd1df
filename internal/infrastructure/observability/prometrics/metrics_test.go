package prometrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
)

func TestCounterRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg, "shopsmart", "")

	c1 := r.Counter("usecase_requests_total", "help", "use_case", "outcome")
	c2 := r.Counter("usecase_requests_total", "help", "use_case", "outcome")

	c1.Add(1, observability.L("use_case", "order.create"), observability.L("outcome", "success"))
	c2.Bind(observability.L("use_case", "order.create"), observability.L("outcome", "success")).Add(2)

	vec := r.(*registry).counters["usecase_requests_total"]
	assert.Equal(t, 3.0, testutil.ToFloat64(vec.WithLabelValues("order.create", "success")))
	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestHistogramDefaultBuckets(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg, "shopsmart", "")

	h := r.Histogram("usecase_duration_seconds", "help", nil, "use_case")
	h.Observe(0.2, observability.L("use_case", "order.create"))
	h.Bind(observability.L("use_case", "order.cancel")).Observe(0.1)

	n, err := testutil.GatherAndCount(reg, "shopsmart_usecase_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}
