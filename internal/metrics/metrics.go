// Package metrics holds the Prometheus collectors for the service
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat reply outcomes
const (
	ChatOK            = "ok"
	ChatEmpty         = "empty"
	ChatUpstreamError = "upstream_error"
	ChatError         = "error"
)

// Metrics groups the collectors registered for one server instance
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	StoreOperations  *prometheus.CounterVec
	ChatReplies      *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
	ImageUploads     *prometheus.CounterVec
	RateLimited      prometheus.Counter
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "khana",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "khana",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		StoreOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "khana",
			Name:      "store_operations_total",
			Help:      "Recipe store operations by op and outcome.",
		}, []string{"op", "outcome"}),
		ChatReplies: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "khana",
			Name:      "chat_replies_total",
			Help:      "Chat proxy replies by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "khana",
			Name:      "completion_request_duration_seconds",
			Help:      "Latency of completion provider calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
		ImageUploads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "khana",
			Name:      "image_uploads_total",
			Help:      "Image uploads by outcome.",
		}, []string{"outcome"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "khana",
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}
}

// Discard returns collectors registered on a throwaway registry
func Discard() *Metrics {
	return New(prometheus.NewRegistry())
}

// ObserveStore records one store operation
func (m *Metrics) ObserveStore(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.StoreOperations.WithLabelValues(op, outcome).Inc()
}

// ObserveChat records one chat reply outcome
func (m *Metrics) ObserveChat(outcome string) {
	if m == nil {
		return
	}
	m.ChatReplies.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records the latency of one completion call
func (m *Metrics) ObserveUpstream(d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamDuration.Observe(d.Seconds())
}

// ObserveImageUpload records one image upload outcome
func (m *Metrics) ObserveImageUpload(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ImageUploads.WithLabelValues(outcome).Inc()
}

// Middleware counts and times every request by matched route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
