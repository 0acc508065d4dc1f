package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/napolitain/geode-solver/internal/config"
	"github.com/napolitain/geode-solver/internal/logging"
	"github.com/napolitain/geode-solver/internal/metrics"
	"github.com/napolitain/geode-solver/internal/rpc"
	"github.com/napolitain/geode-solver/internal/server"
)

var (
	configFile = flag.String("config", "", "Path to YAML config file")
	address    = flag.String("addr", "", "Listen address, overrides server.address")
	grpcAddr   = flag.String("grpc-addr", "", "gRPC listen address, overrides server.grpc_address")
)

// buildServer wires configuration, logging and metrics into the HTTP server
// and the gRPC service
func buildServer(cfg *config.Config, logger *slog.Logger) (*server.Server, *rpc.Service, error) {
	gin.SetMode(cfg.Server.Mode)

	deps := server.Deps{Logger: logger}
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		collector := metrics.NewSearchMetricsCollector()
		if err := collector.Register(); err != nil {
			return nil, nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		deps.Recorder = collector
		deps.Gatherer = metrics.GetRegistry()
	}

	return server.New(cfg, deps), rpc.NewService(cfg, logger, deps.Recorder), nil
}

// serveGRPC serves the gRPC service until ctx is cancelled
func serveGRPC(ctx context.Context, address string, svc *rpc.Service, logger *slog.Logger) error {
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s := grpc.NewServer()
	rpc.RegisterSolverServer(s, svc)

	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	logger.Info("gRPC server listening", "address", address)
	if err := s.Serve(lis); err != nil {
		return fmt.Errorf("gRPC server error: %w", err)
	}
	return nil
}

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Server.Address = *address
	}
	if *grpcAddr != "" {
		cfg.Server.GRPCAddress = *grpcAddr
	}

	logger := logging.New(cfg.Logging, nil)
	slog.SetDefault(logger)

	srv, svc, err := buildServer(cfg, logger)
	if err != nil {
		logger.Error("Startup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting geode solver service",
		"metrics", cfg.Metrics.Enabled,
		"workers", cfg.Batch.Workers,
		"horizon", cfg.Solver.Horizon)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gCtx) })
	if cfg.Server.GRPCAddress != "" {
		g.Go(func() error { return serveGRPC(gCtx, cfg.Server.GRPCAddress, svc, logger) })
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
