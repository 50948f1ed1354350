// Package grpc exposes the standard gRPC health and reflection services so
// orchestrators can probe the store process.
package grpc

import (
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tair/pharmadistrib/pkg/logger"
)

// StoreService is the health service name reported once the store is open
const StoreService = "pharmadistrib.store"

// Server wraps a grpc.Server with its health service
type Server struct {
	grpc   *grpc.Server
	health *health.Server
}

// NewServer builds the gRPC server with logging, metrics and tracing.
// Every service starts NOT_SERVING until SetServing is called.
func NewServer(metrics *Metrics) *Server {
	interceptors := []grpc.UnaryServerInterceptor{LoggingInterceptor}
	if metrics != nil {
		interceptors = append(interceptors, metrics.UnaryInterceptor)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(interceptors...),
	)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(StoreService, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Register reflection service (for grpcurl and grpc tools)
	reflection.Register(grpcServer)

	return &Server{grpc: grpcServer, health: healthServer}
}

// SetServing marks the process and the store as healthy
func (s *Server) SetServing() {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(StoreService, healthpb.HealthCheckResponse_SERVING)
}

// Serve accepts connections on lis until Stop is called
func (s *Server) Serve(lis net.Listener) error {
	logger.Logger.Info().
		Str("addr", lis.Addr().String()).
		Msg("gRPC server started")
	return s.grpc.Serve(lis)
}

// Stop reports NOT_SERVING and drains in-flight calls
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
