// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gudang",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gudang",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gudang",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	authAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gudang",
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Login and registration attempts by outcome.",
		},
		[]string{"action", "outcome"},
	)

	inventoryMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gudang",
			Subsystem: "inventory",
			Name:      "mutations_total",
			Help:      "Inventory create, update and delete operations by outcome.",
		},
		[]string{"operation", "outcome"},
	)

	inventoryEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gudang",
			Subsystem: "inventory",
			Name:      "events_consumed_total",
			Help:      "Inventory events received by the audit consumer.",
		},
		[]string{"event"},
	)

	sessionsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gudang",
			Subsystem: "auth",
			Name:      "sessions_purged_total",
			Help:      "Expired sessions removed by the sweeper.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		authAttempts,
		inventoryMutations,
		inventoryEvents,
		sessionsPurged,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns a fiber handler exposing the registered metrics.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

// Middleware records request counts and latency per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		method := c.Method()
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// RecordAuth counts a login or registration attempt.
func RecordAuth(action, outcome string) {
	authAttempts.WithLabelValues(action, outcome).Inc()
}

// RecordInventoryMutation counts an inventory write.
func RecordInventoryMutation(operation, outcome string) {
	inventoryMutations.WithLabelValues(operation, outcome).Inc()
}

// RecordInventoryEvent counts an inventory event seen by the audit consumer.
func RecordInventoryEvent(event string) {
	inventoryEvents.WithLabelValues(event).Inc()
}

// RecordSessionsPurged adds n to the purged session count.
func RecordSessionsPurged(n int64) {
	sessionsPurged.Add(float64(n))
}
