package observability

const (
	MUsecaseRequests         MetricKey = "usecase_requests_total"
	MUsecaseDuration         MetricKey = "usecase_duration_seconds"
	MHTTPRequests            MetricKey = "http_requests_total"
	MHTTPRequestDuration     MetricKey = "http_request_duration_seconds"
	MHTTPRateLimited         MetricKey = "http_rate_limited_total"
	MExternalRequests        MetricKey = "external_requests_total"
	MExternalRequestDuration MetricKey = "external_request_duration_seconds"
	MEventPublishFailed      MetricKey = "order_event_publish_failed_total"
	MInvariantViolations     MetricKey = "order_invariant_violations_total"
	MEventsHandled           MetricKey = "event_handlers_total"
)
