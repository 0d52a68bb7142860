package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Signin attempts
	SigninCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "school_signin_total",
			Help: "Total number of signin attempts",
		},
	)

	// Signup attempts
	SignupCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "school_signup_total",
			Help: "Total number of signup attempts",
		},
	)

	// Tokens handed out by signup and signin
	TokensIssuedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_tokens_issued_total",
			Help: "Total number of bearer tokens issued",
		},
		[]string{"kind"}, // signup, signin
	)

	// School operation counter
	SchoolOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_operations_total",
			Help: "Total number of school operations",
		},
		[]string{"operation"}, // create, list, students
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	ErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_errors_total",
			Help: "Total number of request errors",
		},
		[]string{"type"}, // validation_failed, user_exists, user_not_found, invalid_password, db_error, ...
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "school_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "school_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // query, insert, update
	)
)

// Gauge metrics
var (
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "school_info",
			Help: "Information about the school service",
		},
		[]string{"version", "store"},
	)
)

func init() {
	prometheus.MustRegister(SigninCounter)
	prometheus.MustRegister(SignupCounter)
	prometheus.MustRegister(TokensIssuedCounter)
	prometheus.MustRegister(SchoolOperationCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(ErrorCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(InfoGauge)
}

// SetInfo publishes the running version and store driver
func SetInfo(version, store string) {
	InfoGauge.With(prometheus.Labels{"version": version, "store": store}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations:
//
//	defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(start).Seconds())
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordError records a request error by type
func RecordError(errorType string) {
	ErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordSchoolOperation records a school operation
func RecordSchoolOperation(operation string) {
	SchoolOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordTokenIssued records a bearer token handed out to a client
func RecordTokenIssued(kind string) {
	TokensIssuedCounter.With(prometheus.Labels{"kind": kind}).Inc()
}
