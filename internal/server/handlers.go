package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/napolitain/geode-solver/internal/loader"
	"github.com/napolitain/geode-solver/internal/solver/batch"
	"github.com/napolitain/geode-solver/internal/solver/geode"
)

// SolveRequest is the body of POST /v1/solve
type SolveRequest struct {
	// Blueprint text in the single-line or multi-line form
	Blueprints string `json:"blueprints" binding:"required"`
	// Minutes per blueprint, the configured horizon when absent
	Horizon *int `json:"horizon" binding:"omitempty,min=0,max=64"`
	// exhaustive or greedy, the configured policy when empty
	Policy string `json:"policy" binding:"omitempty,oneof=exhaustive greedy"`
	// Number of leading blueprints multiplied together, 0 to skip
	Top        int  `json:"top" binding:"min=0"`
	TopHorizon *int `json:"top_horizon" binding:"omitempty,min=0,max=64"`
	// Deadline for the whole request, the configured timeout when zero.
	// Never longer than server.request_timeout.
	TimeoutMS int `json:"timeout_ms" binding:"min=0"`
}

// SolveResponse is returned by POST /v1/solve
type SolveResponse struct {
	RequestID string `json:"request_id"`
	batch.Report
}

// ErrorResponse is returned on failure
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// getOrCreateRequestID gets or creates a request ID
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSolve handles POST /v1/solve.
//
// Response:
//
//	200 OK: SolveResponse
//	400 Bad Request: invalid body or malformed blueprint
//	504 Gateway Timeout: deadline reached before every search finished
func (s *Server) handleSolve(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := s.logger.With("request_id", requestID, "handler", "handleSolve")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Server.MaxBodyBytes)

	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	blueprints, err := loader.ParseBlueprints(strings.NewReader(req.Blueprints))
	if err != nil {
		logger.Warn("Malformed blueprints", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "MALFORMED_BLUEPRINT",
		})
		return
	}
	if len(blueprints) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "no blueprint in request",
			Code:  "NO_BLUEPRINTS",
		})
		return
	}

	policyName := req.Policy
	if policyName == "" {
		policyName = s.cfg.Solver.Policy
	}
	policy, err := geode.ParsePolicy(policyName)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	horizon := s.cfg.Solver.Horizon
	if req.Horizon != nil {
		horizon = *req.Horizon
	}
	topHorizon := s.cfg.Batch.TopHorizon
	if req.TopHorizon != nil {
		topHorizon = *req.TopHorizon
	}

	ctx := c.Request.Context()
	timeout := s.cfg.RequestTimeout(time.Duration(req.TimeoutMS) * time.Millisecond)
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	evaluator := batch.NewEvaluator(batch.Options{
		Workers:      s.cfg.Batch.Workers,
		Policy:       policy,
		DisableDedup: s.cfg.Solver.DisableDedup,
		Logger:       logger,
		Recorder:     s.deps.Recorder,
	})

	report, err := evaluator.Run(ctx, blueprints, horizon, req.Top, topHorizon)
	if err != nil {
		status, code := http.StatusInternalServerError, "SOLVE_FAILED"
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			status, code = http.StatusGatewayTimeout, "DEADLINE_EXCEEDED"
		case errors.Is(err, context.Canceled):
			status, code = http.StatusServiceUnavailable, "CANCELLED"
		}
		logger.Warn("Solve failed", "error", err, "status", status)
		c.JSON(status, ErrorResponse{
			Error: err.Error(),
			Code:  code,
		})
		return
	}

	logger.Info("Solve complete",
		slog.Int("blueprints", len(blueprints)),
		slog.Int("horizon", horizon),
		slog.Int("quality_sum", report.QualitySum),
		slog.Int("product", report.Product))

	c.JSON(http.StatusOK, SolveResponse{
		RequestID: requestID,
		Report:    report,
	})
}
