package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jeopardy"

// Metrics хранит метрики Prometheus сервиса
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	ActiveSessions  prometheus.Gauge
	GameCommands    *prometheus.CounterVec
	BoardLoads      *prometheus.CounterVec
	GamesFinished   prometheus.Counter
	WSConnections   prometheus.Gauge
	EventsBroadcast *prometheus.CounterVec
}

// NewMetrics создает метрики в собственном реестре
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "active_sessions",
				Help:      "Number of open game sessions",
			},
		),
		GameCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "commands_total",
				Help:      "Game commands by name and result",
			},
			[]string{"command", "result"}, // result: ok, validation, invalid_transition, not_found, error
		),
		BoardLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "board_loads_total",
				Help:      "Board loads by source and result",
			},
			[]string{"source", "result"},
		),
		GamesFinished: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "finished_total",
				Help:      "Number of games that reached game over",
			},
		),
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "websocket",
				Name:      "connections",
				Help:      "Number of open WebSocket connections",
			},
		),
		EventsBroadcast: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "websocket",
				Name:      "events_total",
				Help:      "Events broadcast to game subscribers",
			},
			[]string{"type"},
		),
	}
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler возвращает HTTP-обработчик для сбора метрик
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// GinMiddleware считает запросы и их длительность по шаблону маршрута
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.RequestsInFlight.Inc()
		start := time.Now()

		c.Next()

		m.RequestsInFlight.Dec()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.RequestCounter.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// ConnectionOpened учитывает новое WebSocket-соединение
func (m *Metrics) ConnectionOpened() {
	m.WSConnections.Inc()
}

// ConnectionClosed учитывает закрытое WebSocket-соединение
func (m *Metrics) ConnectionClosed() {
	m.WSConnections.Dec()
}

// EventSent учитывает событие, разосланное подписчикам игры
func (m *Metrics) EventSent(eventType string) {
	m.EventsBroadcast.WithLabelValues(eventType).Inc()
}
