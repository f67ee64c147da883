// Package grpc exposes store readiness over the standard gRPC health
// protocol.
package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/atinyakov/go-review-links/internal/intercepters"
)

// ServiceName is the service reported through grpc.health.v1.Health.
const ServiceName = "reviewer"

const (
	probeInterval = 15 * time.Second
	probeTimeout  = 3 * time.Second
)

// Pinger reports store reachability.
type Pinger interface {
	PingContext(context.Context) error
}

// Server wraps the gRPC server and dependencies.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	store      Pinger
	port       int
	logger     *zap.Logger
}

// New creates a new gRPC server instance. trusted may be nil; proxies are
// the peers whose x-real-ip metadata is believed.
func New(logger *zap.Logger, store Pinger, port int, trusted *net.IPNet, proxies []*net.IPNet) *Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			intercepters.SubnetIPInterceptor,
			logging.UnaryServerInterceptor(intercepters.InterceptorLogger(logger)),
			intercepters.TrustedSubnet(trusted, proxies),
		),
	)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	return &Server{
		grpcServer: s,
		health:     hs,
		store:      store,
		port:       port,
		logger:     logger,
	}
}

// Probe pings the store once and publishes the result.
func (s *Server) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := s.store.PingContext(ctx); err != nil {
		s.logger.Warn("store probe failed", zap.Error(err))
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus(ServiceName, st)
	s.health.SetServingStatus("", st)
	return st
}

// Watch probes the store until ctx is done.
func (s *Server) Watch(ctx context.Context) {
	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()

	s.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Probe(ctx)
		}
	}
}

// Serve runs the gRPC server on lis.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// Start runs the gRPC server.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		s.logger.Error("gRPC server failed to listen:", zap.Error(err))
		return err
	}

	s.logger.Info("gRPC server listening on port", zap.Int("port", s.port))
	return s.Serve(lis)
}

// GracefulStop marks the service as not serving and shuts the server down.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
