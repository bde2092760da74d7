// Package metrics exposes Prometheus collectors for the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors the API updates.
type Metrics struct {
	Transitions     *prometheus.CounterVec
	SessionsStarted prometheus.Counter
	ScreenRenders   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendtrack_transitions_total",
			Help: "Navigation operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendtrack_sessions_started_total",
			Help: "Sessions created.",
		}),
		ScreenRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendtrack_screen_renders_total",
			Help: "Rendered views by screen.",
		}, []string{"screen"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "attendtrack_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.Transitions, m.SessionsStarted, m.ScreenRenders, m.RequestDuration)
	return m
}

// GinMiddleware observes request latency by matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
