// Package telemetry registers the service's metric catalogue and assembles
// the Observability provider handed to every use case.
package telemetry

import (
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/observability"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/observability/oteltrace"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/observability/prometrics"
	obs "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

type counterSpec struct {
	key    obs.MetricKey
	help   string
	labels []string
}

type histogramSpec struct {
	key    obs.MetricKey
	help   string
	labels []string
}

var counters = []counterSpec{
	{obs.MUsecaseRequests, "Total number of use case invocations.", []string{"use_case", "outcome"}},
	{obs.MHTTPRequests, "Total number of HTTP requests.", []string{"method", "route", "status"}},
	{obs.MHTTPRateLimited, "Requests rejected by the per-client rate limiter.", []string{"route"}},
	{obs.MExternalRequests, "Calls to external peers such as event brokers.", []string{"peer", "endpoint", "outcome"}},
	{obs.MEventPublishFailed, "Count of order-related event publish failures.", []string{"event"}},
	{obs.MInvariantViolations, "Order/payment pairs left out of sync after a failed write.", []string{"use_case"}},
	{obs.MEventsHandled, "Outbox handler invocations by event and outcome.", []string{"event", "outcome"}},
}

var histograms = []histogramSpec{
	{obs.MUsecaseDuration, "Duration of use case execution in seconds.", []string{"use_case"}},
	{obs.MHTTPRequestDuration, "Duration of HTTP requests in seconds.", []string{"method", "route", "status"}},
	{obs.MExternalRequestDuration, "Duration of external peer calls in seconds.", []string{"peer", "endpoint"}},
}

// New registers every metric on reg and returns the assembled provider.
func New(serviceName string, logger obs.Logger, reg prometheus.Registerer) obs.Observability {
	r := prometrics.New(reg, "", "")

	cs := make(map[obs.MetricKey]obs.Counter, len(counters))
	for _, c := range counters {
		cs[c.key] = r.Counter(string(c.key), c.help, c.labels...)
	}
	hs := make(map[obs.MetricKey]obs.Histogram, len(histograms))
	for _, h := range histograms {
		hs[h.key] = r.Histogram(string(h.key), h.help, prometheus.DefBuckets, h.labels...)
	}

	return observability.New(oteltrace.New(serviceName), logger, cs, hs)
}
