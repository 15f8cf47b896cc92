// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus instrumentation for the HTTP server.

Collectors live on a [Recorder] registered against an explicit registry, so
tests can build isolated recorders without touching the global default.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the application collectors.
type Recorder struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimitDropped    *prometheus.CounterVec
	mailsTotal          *prometheus.CounterVec
	bookingsTotal       *prometheus.CounterVec
}

// New creates a recorder with its own registry, including the Go runtime
// and process collectors.
func New() *Recorder {
	recorder := &Recorder{
		registry: prometheus.NewRegistry(),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_server_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_server_requests_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status_code"},
		),

		rateLimitDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratelimit_dropped_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"backend"},
		),

		mailsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mail_deliveries_total",
				Help: "Total number of account mails by kind and outcome",
			},
			[]string{"kind", "status"},
		),

		bookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_created_total",
				Help: "Total number of bookings by source",
			},
			[]string{"source"},
		),
	}

	recorder.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		recorder.httpRequestsTotal,
		recorder.httpRequestDuration,
		recorder.rateLimitDropped,
		recorder.mailsTotal,
		recorder.bookingsTotal,
	)

	return recorder
}

// # HTTP

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (writer *statusWriter) WriteHeader(code int) {
	writer.status = code
	writer.ResponseWriter.WriteHeader(code)
}

// Middleware records the count and latency of every request, labelled by
// the matched route pattern rather than the raw path.
func (recorder *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(wrapped, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := strconv.Itoa(wrapped.status)
		recorder.httpRequestsTotal.WithLabelValues(request.Method, route, status).Inc()
		recorder.httpRequestDuration.WithLabelValues(request.Method, route, status).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (recorder *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(recorder.registry, promhttp.HandlerOpts{})
}

// # Domain Events

// RateLimitDropped counts a rejected request.
func (recorder *Recorder) RateLimitDropped(backend string) {
	recorder.rateLimitDropped.WithLabelValues(backend).Inc()
}

// MailSent counts a mail delivery attempt.
func (recorder *Recorder) MailSent(kind string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	recorder.mailsTotal.WithLabelValues(kind, status).Inc()
}

// BookingCreated counts a persisted booking.
func (recorder *Recorder) BookingCreated(source string) {
	recorder.bookingsTotal.WithLabelValues(source).Inc()
}
