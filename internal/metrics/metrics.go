// Package metrics define las métricas Prometheus del gateway. Viven en un paquete propio
// para que directory, jwt y http puedan instrumentarse sin ciclos de import.
package metrics

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DirectoryRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kcs_directory_requests_total",
		Help: "Llamadas al directorio de usuarios por resultado",
	}, []string{"result"}) // ok|not_found|upstream_error

	DirectoryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "kcs_directory_request_duration_seconds",
		Help:    "Latencia de las llamadas al directorio de usuarios",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	TokenValidations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kcs_token_validations_total",
		Help: "Validaciones de token por resultado",
	}, []string{"result"})

	TokensIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kcs_tokens_issued_total",
		Help: "Access tokens emitidos",
	})

	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kcs_login_attempts_total",
		Help: "Intentos de login por resultado",
	}, []string{"result"}) // accepted|rejected|error

	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kcs_rate_limited_total",
		Help: "Requests rechazadas por rate limit",
	}, []string{"path"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "path", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "http_inflight_requests",
		Help: "Requests en vuelo por método y ruta",
	}, []string{"method", "path"})
)

// Register registra todas las métricas en reg (o el default si es nil) y devuelve el
// handler para /metrics.
func Register(reg prometheus.Registerer) (http.Handler, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		DirectoryRequests, DirectoryDuration, TokenValidations, TokensIssued,
		LoginAttempts, RateLimited, HTTPRequests, HTTPDuration, HTTPInflight,
	} {
		if err := registerCollector(reg, c); err != nil {
			return nil, err
		}
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		return promhttp.HandlerFor(g, promhttp.HandlerOpts{}), nil
	}
	return promhttp.Handler(), nil
}

// ObserveDirectory registra resultado y latencia de una llamada al directorio.
func ObserveDirectory(result string, started time.Time) {
	DirectoryRequests.WithLabelValues(result).Inc()
	DirectoryDuration.Observe(time.Since(started).Seconds())
}

// registerCollector registra el collector ignorando duplicados.
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

var (
	numericSegmentRE = regexp.MustCompile(`^[0-9]+$`)
	uuidSegmentRE    = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F-]{4}-[0-9a-fA-F-]{4,}$`)
	tokenSegmentRE   = regexp.MustCompile(`^[A-Za-z0-9_.-]{24,}$`)
)

// NormalizePath colapsa segmentos variables (ids, uuids, tokens) para acotar la
// cardinalidad de la label path.
func NormalizePath(p string) string {
	clean := strings.SplitN(p, "?", 2)[0]
	if clean == "" {
		return "/"
	}
	if !strings.HasPrefix(clean, "/") {
		clean = "/" + clean
	}
	segments := strings.Split(clean, "/")
	for i, seg := range segments {
		switch {
		case seg == "":
		case numericSegmentRE.MatchString(seg):
			segments[i] = ":id"
		case uuidSegmentRE.MatchString(seg):
			segments[i] = ":uuid"
		case tokenSegmentRE.MatchString(seg):
			segments[i] = ":token"
		}
	}
	return strings.Join(segments, "/")
}
