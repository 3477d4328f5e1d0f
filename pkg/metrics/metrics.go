// Package metrics expone contadores Prometheus de la API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Eventos de autenticación.
const (
	AuthRegister     = "register"
	AuthRegisterFail = "register_fail"
	AuthLogin        = "login"
	AuthLoginFail    = "login_fail"
	AuthLogout       = "logout"
)

// Operaciones de carrito.
const (
	CartAdd    = "add"
	CartRemove = "remove"
	CartClear  = "clear"
	CartQuote  = "quote"
)

// Metrics agrupa los colectores sobre un registry propio (no el global), así los
// tests pueden crear varios sin colisiones de registro.
type Metrics struct {
	registry         *prometheus.Registry
	authEvents       *prometheus.CounterVec
	cartOps          *prometheus.CounterVec
	sessionConflicts prometheus.Counter
	httpDuration     *prometheus.HistogramVec
}

// New registra los colectores bajo el namespace dado.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Eventos de registro, login y logout.",
		}, []string{"event"}),
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_operations_total",
			Help:      "Operaciones de carrito completadas.",
		}, []string{"op"}),
		sessionConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_cas_conflicts_total",
			Help:      "Escrituras de sesión rechazadas por versión vieja y reintentadas.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		m.authEvents, m.cartOps, m.sessionConflicts, m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// AuthEvent incrementa el contador del evento.
func (m *Metrics) AuthEvent(event string) {
	m.authEvents.WithLabelValues(event).Inc()
}

// CartOp incrementa el contador de la operación.
func (m *Metrics) CartOp(op string) {
	m.cartOps.WithLabelValues(op).Inc()
}

// SessionConflict implementa cart.ConflictObserver.
func (m *Metrics) SessionConflict() {
	m.sessionConflicts.Inc()
}

// Middleware mide cada petición. Usa la ruta registrada, no el path, para acotar cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
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
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "/" && r.Path != "" {
			route = r.Path
		} else if c.Path() == "/" {
			route = "/"
		}
		m.httpDuration.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
		return err
	}
}

// HTTPHandler handler promhttp del registry.
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Handler handler Fiber para GET /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(m.HTTPHandler())
}

// Registry expone el registry (tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
