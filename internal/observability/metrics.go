package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// News fetch outcomes.
const (
	NewsOutcomeOK         = "ok"
	NewsOutcomeFetchError = "fetch_error"
	NewsOutcomeEmpty      = "empty"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "innovalley_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "innovalley_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// NewsFetchTotal counts news feed refreshes by outcome.
	NewsFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "innovalley_news_fetch_total",
		Help: "Total number of news page fetches by outcome",
	}, []string{"outcome"})

	// NewsFetchLatency records the time spent downloading the news page.
	NewsFetchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "innovalley_news_fetch_latency_seconds",
		Help:    "News page fetch latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// BoardWritesTotal counts board mutations by kind and action.
	BoardWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "innovalley_board_writes_total",
		Help: "Total number of post and comment writes",
	}, []string{"kind", "action"})

	// ChatMessagesTotal counts chat replies by transport.
	ChatMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "innovalley_chat_messages_total",
		Help: "Total number of chat messages answered",
	}, []string{"transport"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
