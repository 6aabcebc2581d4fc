package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "haloclaude",
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status", "deployment"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "haloclaude",
			Subsystem: "proxy",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Token counters
	TokensPromptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "haloclaude",
			Subsystem: "proxy",
			Name:      "tokens_prompt_total",
			Help:      "Total prompt tokens consumed",
		},
		[]string{"model"},
	)

	TokensCompletionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "haloclaude",
			Subsystem: "proxy",
			Name:      "tokens_completion_total",
			Help:      "Total completion tokens generated",
		},
		[]string{"model"},
	)

	// Provider errors
	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "haloclaude",
			Subsystem: "proxy",
			Name:      "provider_errors_total",
			Help:      "Total model provider call failures",
		},
		[]string{"error_type"},
	)

	// Tool dispatch
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "haloclaude",
			Subsystem: "proxy",
			Name:      "tool_calls_total",
			Help:      "Total tool dispatches by outcome",
		},
		[]string{"tool", "status"},
	)

	// Agent loop rounds per request
	AgentRounds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "haloclaude",
			Subsystem: "proxy",
			Name:      "agent_rounds_per_request",
			Help:      "Distribution of model turns per completion request",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
	)

	// Context injection
	ContextFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "haloclaude",
			Subsystem: "proxy",
			Name:      "context_fetches_total",
			Help:      "Total ticket context fetches by outcome",
		},
		[]string{"status"},
	)

	ContextCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "haloclaude",
			Subsystem: "proxy",
			Name:      "context_cache_total",
			Help:      "Context cache lookups by result",
		},
		[]string{"result"},
	)
)

// RecordRequest records one completed HTTP request.
func RecordRequest(method, endpoint, status, deployment string, duration float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status, deployment).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(duration)
}

// RecordTokens records the token usage of a finished completion.
func RecordTokens(model string, promptTokens, completionTokens int) {
	TokensPromptTotal.WithLabelValues(model).Add(float64(promptTokens))
	TokensCompletionTotal.WithLabelValues(model).Add(float64(completionTokens))
}

// RecordProviderError records a failed model provider call.
func RecordProviderError(errorType string) {
	ProviderErrorsTotal.WithLabelValues(errorType).Inc()
}

// RecordToolCall records one tool dispatch.
func RecordToolCall(tool string, failed bool) {
	status := "ok"
	if failed {
		status = "error"
	}
	ToolCallsTotal.WithLabelValues(tool, status).Inc()
}

// RecordAgentRounds records how many model turns a request took.
func RecordAgentRounds(rounds int) {
	AgentRounds.Observe(float64(rounds))
}

// RecordContextFetch records one ticket context fetch.
func RecordContextFetch(failed bool) {
	status := "ok"
	if failed {
		status = "error"
	}
	ContextFetchesTotal.WithLabelValues(status).Inc()
}

// RecordContextCache records a context cache lookup result.
func RecordContextCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ContextCacheTotal.WithLabelValues(result).Inc()
}
