package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"},
	)
	// AccountEvents op: register/login/edit/password/delete/avatar/bio；result: ok/fail
	AccountEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "blog_account_events_total", Help: "Account flow outcomes"},
		[]string{"op", "result"},
	)
	GateRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "blog_gate_rejections_total", Help: "Requests rejected by a guard"},
		[]string{"guard", "status"},
	)
	NotifyQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "blog_notify_queue_depth", Help: "Pending notifications"},
	)
	NotifyDropped = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "blog_notify_dropped_total", Help: "Notifications dropped on a full queue"},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "blog_cache_lookups_total", Help: "Cache lookups by key and result"},
		[]string{"key", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequests, HTTPLatency,
		AccountEvents, GateRejections,
		NotifyQueueDepth, NotifyDropped,
		CacheLookups,
	)
}

func Account(op string, err error) {
	result := "ok"
	if err != nil {
		result = "fail"
	}
	AccountEvents.WithLabelValues(op, result).Inc()
}

func Handler() http.Handler { return promhttp.Handler() }
