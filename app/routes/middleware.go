package routes

import (
	"fmt"
	"net/http"
	"strconv"

	"todo-lists/app/controllers"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const requestIDHeader = "X-Request-Id"

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "todo_http_requests_total",
		Help: "HTTP requests served, by route, method and status code.",
	}, []string{"route", "method", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "todo_http_request_duration_seconds",
		Help:    "Time spent serving HTTP requests, by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// gripRecoveryLogger sends panics caught by the recovery handler to the log.
type gripRecoveryLogger struct{}

func (gripRecoveryLogger) Println(args ...any) {
	grip.Critical(message.Fields{
		"message": "recovered from panic while serving request",
		"panic":   fmt.Sprint(args...),
	})
}

// recoverPanics turns a panicking handler into a 500 response. The recovery
// handler only sends the status line, so the error body is added here when
// nothing else was written.
func recoverPanics(next http.Handler) http.Handler {
	recovering := handlers.RecoveryHandler(
		handlers.RecoveryLogger(gripRecoveryLogger{}),
		handlers.PrintRecoveryStack(true),
	)(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			code    int
			written bool
		)
		hooked := httpsnoop.Wrap(w, httpsnoop.Hooks{
			WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
				return func(c int) {
					if code == 0 {
						code = c
					}
					next(c)
				}
			},
			Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
				return func(b []byte) (int, error) {
					written = true
					return next(b)
				}
			},
		})

		recovering.ServeHTTP(hooked, r)

		if code == http.StatusInternalServerError && !written {
			controllers.InternalErrorBody(w, r)
		}
	})
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// tagRequest assigns each request an id, reusing the caller's if it sent one.
func tagRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(controllers.WithRequestID(r.Context(), id)))
	})
}

// instrument logs every request and records it in the request metrics.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		m := httpsnoop.CaptureMetrics(next, w, r)

		requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(m.Code)).Inc()
		requestDuration.WithLabelValues(route, r.Method).Observe(m.Duration.Seconds())

		grip.Info(message.Fields{
			"message":     "served request",
			"request_id":  controllers.RequestID(r.Context()),
			"method":      r.Method,
			"route":       route,
			"path":        r.URL.Path,
			"status":      m.Code,
			"bytes":       m.Written,
			"duration_ms": m.Duration.Milliseconds(),
		})
	})
}
