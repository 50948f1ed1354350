package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	oteltrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tair/pharmadistrib/pkg/logger"
)

// Metrics holds the gRPC request collectors
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pharmadistrib_grpc_requests_total",
				Help: "Total number of gRPC requests",
			},
			[]string{"service", "method", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pharmadistrib_grpc_request_duration_seconds",
				Help:    "Duration of gRPC requests in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"service", "method"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pharmadistrib_grpc_errors_total",
				Help: "Total number of gRPC calls that returned a non-OK code",
			},
			[]string{"service", "method", "code"},
		),
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.errorsTotal)
	return m
}

// splitMethod turns "/pkg.Service/Method" into its service and method parts
func splitMethod(fullMethod string) (string, string) {
	name := strings.TrimPrefix(fullMethod, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "unknown", name
}

// UnaryInterceptor counts and times unary calls per service and method
func (m *Metrics) UnaryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	service, method := splitMethod(info.FullMethod)
	start := time.Now()

	resp, err := handler(ctx, req)

	code := status.Code(err).String()
	m.requestsTotal.WithLabelValues(service, method, code).Inc()
	m.requestDuration.WithLabelValues(service, method).Observe(time.Since(start).Seconds())
	if err != nil {
		m.errorsTotal.WithLabelValues(service, method, code).Inc()
	}
	return resp, err
}

// clientFault reports codes caused by the caller rather than the server
func clientFault(code codes.Code) bool {
	switch code {
	case codes.InvalidArgument, codes.NotFound, codes.AlreadyExists,
		codes.PermissionDenied, codes.Unauthenticated, codes.FailedPrecondition,
		codes.OutOfRange, codes.Canceled:
		return true
	}
	return false
}

// LoggingInterceptor logs every unary call. Caller mistakes are logged as
// warnings, server failures as errors.
func LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	duration := time.Since(start)

	code := status.Code(err)
	var event *zerolog.Event
	switch {
	case err == nil:
		event = logger.Debug(ctx)
	case clientFault(code):
		event = logger.Warn(ctx).Err(err)
	default:
		event = logger.Error(ctx).Err(err)
	}

	traceID := "no-trace"
	if sc := oteltrace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		traceID = sc.TraceID().String()
	}

	service, method := splitMethod(info.FullMethod)
	event.
		Str("protocol", "grpc").
		Str("grpc_service", service).
		Str("grpc_method", method).
		Str("grpc_code", code.String()).
		Dur("duration", duration).
		Str("trace_id", traceID).
		Msg("gRPC request handled")

	return resp, err
}
