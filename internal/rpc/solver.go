package rpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/geode-solver/internal/config"
	"github.com/napolitain/geode-solver/internal/loader"
	"github.com/napolitain/geode-solver/internal/metrics"
	"github.com/napolitain/geode-solver/internal/solver/batch"
	"github.com/napolitain/geode-solver/internal/solver/geode"
)

const maxHorizon = 64

// Service implements SolverServer on top of the batch evaluator
type Service struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.SearchRecorder
}

// NewService creates the gRPC service. logger and recorder may be nil.
func NewService(cfg *config.Config, logger *slog.Logger, recorder metrics.SearchRecorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:      cfg,
		logger:   logger.With("transport", "grpc"),
		recorder: recorder,
	}
}

// Solve implements the Solve RPC
func (s *Service) Solve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := RequestFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	blueprints, err := loader.ParseBlueprints(strings.NewReader(req.Blueprints))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if len(blueprints) == 0 {
		return nil, status.Error(codes.InvalidArgument, "no blueprint in request")
	}

	policyName := req.Policy
	if policyName == "" {
		policyName = s.cfg.Solver.Policy
	}
	policy, err := geode.ParsePolicy(policyName)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	horizon := s.cfg.Solver.Horizon
	if req.Horizon != nil {
		horizon = *req.Horizon
	}
	topHorizon := s.cfg.Batch.TopHorizon
	if req.TopHorizon != nil {
		topHorizon = *req.TopHorizon
	}
	if horizon > maxHorizon || topHorizon > maxHorizon {
		return nil, status.Errorf(codes.InvalidArgument, "horizon above %d minutes", maxHorizon)
	}

	if timeout := s.cfg.RequestTimeout(0); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	evaluator := batch.NewEvaluator(batch.Options{
		Workers:      s.cfg.Batch.Workers,
		Policy:       policy,
		DisableDedup: s.cfg.Solver.DisableDedup,
		Logger:       s.logger,
		Recorder:     s.recorder,
	})

	report, err := evaluator.Run(ctx, blueprints, horizon, req.Top, topHorizon)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return nil, status.Error(codes.DeadlineExceeded, err.Error())
		case errors.Is(err, context.Canceled):
			return nil, status.Error(codes.Canceled, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	s.logger.Info("Solve complete",
		"blueprints", len(blueprints),
		"horizon", horizon,
		"quality_sum", report.QualitySum,
		"duration", time.Since(start))

	out, err := reportToStruct(report)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
