// Package handlers serves the directory over HTTP, routed by a grpc-gateway
// ServeMux, next to a gRPC server that carries the health service.
package handlers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gartstein/partners/internal/directory/auth"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server holds references to both a gRPC server and an HTTP server.
type Server struct {
	grpcServer   *grpc.Server
	httpServer   *http.Server
	health       *health.Server
	healthConn   *grpc.ClientConn
	logger       *zap.Logger
	grpcEndpoint string
	httpEndpoint string
}

// NewServer constructs a Server with separate endpoints for gRPC and HTTP.
// The gRPC side always carries the standard health service.
func NewServer(
	grpcPort int,
	httpPort int,
	logger *zap.Logger,
	grpcOpts ...grpc.ServerOption,
) *Server {
	opts := append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryInterceptor(logger.Named("grpc")))}, grpcOpts...)
	s := &Server{
		grpcServer:   grpc.NewServer(opts...),
		httpServer:   &http.Server{ReadHeaderTimeout: 10 * time.Second},
		health:       health.NewServer(),
		logger:       logger,
		grpcEndpoint: fmt.Sprintf(":%d", grpcPort),
		httpEndpoint: fmt.Sprintf(":%d", httpPort),
	}
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	return s
}

// RegisterHTTPGateway builds the HTTP mux: the API routes plus /healthz,
// which queries the gRPC health service over dialOpts.
func (s *Server) RegisterHTTPGateway(_ context.Context, dialOpts []grpc.DialOption, api *API) error {
	conn, err := grpc.NewClient(s.grpcEndpoint, dialOpts...)
	if err != nil {
		return fmt.Errorf("dial gRPC endpoint: %w", err)
	}

	// Middlewares wrap handlers as they are registered, so they come first.
	mux := runtime.NewServeMux(
		runtime.WithMiddlewares(requestLogger(s.logger.Named("http"))),
		runtime.WithHealthzEndpoint(healthpb.NewHealthClient(conn)),
		runtime.WithRoutingErrorHandler(routingError),
	)
	if err := api.Register(mux); err != nil {
		conn.Close()
		return fmt.Errorf("register routes: %w", err)
	}

	s.healthConn = conn
	s.httpServer.Handler = auth.HTTPMiddleware(mux)
	s.httpServer.Addr = s.httpEndpoint
	return nil
}

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// MonitorHealth sets the overall serving status from checker every interval until ctx is done.
func (s *Server) MonitorHealth(ctx context.Context, checker HealthChecker, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			s.checkHealth(ctx, checker)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (s *Server) checkHealth(ctx context.Context, checker HealthChecker) {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := checker.Ping(pingCtx); err != nil {
		s.logger.Warn("Health check failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
}

// Start runs the gRPC and HTTP servers concurrently, returning on the first error.
func (s *Server) Start() error {
	var wg sync.WaitGroup
	wg.Add(2)
	errChan := make(chan error, 2)

	go func() {
		defer wg.Done()
		s.logger.Info("Starting gRPC server", zap.String("endpoint", s.grpcEndpoint))
		lis, err := net.Listen("tcp", s.grpcEndpoint)
		if err != nil {
			errChan <- fmt.Errorf("gRPC listen error: %w", err)
			return
		}
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		if err := s.grpcServer.Serve(lis); err != nil {
			errChan <- fmt.Errorf("gRPC serve error: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		s.logger.Info("Starting HTTP server", zap.String("endpoint", s.httpEndpoint))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP serve error: %w", err)
		}
	}()

	go func() {
		wg.Wait()
		close(errChan)
	}()

	for err := range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}

// Stop gracefully shuts down both gRPC and HTTP servers.
func (s *Server) Stop() {
	s.logger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.health.Shutdown()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	s.grpcServer.GracefulStop()
	if s.healthConn != nil {
		if err := s.healthConn.Close(); err != nil {
			s.logger.Warn("Health client close error", zap.Error(err))
		}
	}

	s.logger.Info("Servers stopped")
}
