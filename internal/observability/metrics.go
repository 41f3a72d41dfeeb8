package observability

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hongminglow/ets-hub/internal/models"
)

// Metrics collects Prometheus metrics for the service. A nil *Metrics records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	handler       http.Handler
	requestsTotal *prometheus.CounterVec
	loginsTotal   *prometheus.CounterVec
	logoutsTotal  prometheus.Counter
	discarded     prometheus.Counter
	viewsTotal    *prometheus.CounterVec
}

// NewMetrics initialises a private registry and the service metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ets_http_requests_total",
		Help: "HTTP requests by method and status code.",
	}, []string{"method", "code"})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ets_logins_total",
		Help: "Successful sign-ins by role.",
	}, []string{"role"})
	logouts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ets_logouts_total",
		Help: "Sign-outs of an authenticated session.",
	})
	discarded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ets_session_restore_discarded_total",
		Help: "Persisted session records dropped because they could not be decoded.",
	})
	views := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ets_views_rendered_total",
		Help: "Dashboard views rendered by kind.",
	}, []string{"view"})
	registry.MustRegister(requests, logins, logouts, discarded, views)
	return &Metrics{
		registry:      registry,
		handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal: requests,
		loginsTotal:   logins,
		logoutsTotal:  logouts,
		discarded:     discarded,
		viewsTotal:    views,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}

// Middleware counts requests by method and status code.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestsTotal.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
	})
}

func (m *Metrics) LoggedIn(role models.Role) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(string(role)).Inc()
}

func (m *Metrics) LoggedOut() {
	if m == nil {
		return
	}
	m.logoutsTotal.Inc()
}

func (m *Metrics) RestoreDiscarded() {
	if m == nil {
		return
	}
	m.discarded.Inc()
}

// ViewRendered counts a rendered dashboard view.
func (m *Metrics) ViewRendered(view string) {
	if m == nil {
		return
	}
	m.viewsTotal.WithLabelValues(view).Inc()
}
