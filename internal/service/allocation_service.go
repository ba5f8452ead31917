package service

import (
	"context"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/allocation"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/apperror"
	"golang-p2p-risk/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
)

// AllocationService splits capital across concurrent opportunities.
type AllocationService interface {
	Allocate(ctx context.Context, req dto.AllocationRequest) (*dto.AllocationResult, error)
}

type allocationService struct {
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	allocator *allocation.Allocator
}

func NewAllocationService(cfg *config.Config, log *logger.Logger, validator *goValidator.Validate) AllocationService {
	return &allocationService{
		cfg:       cfg,
		log:       log,
		validator: validator,
		allocator: allocation.NewAllocator(cfg.Allocation, cfg.Risk.RiskFreeRate),
	}
}

// Allocate falls back to the configured max weight when the request has
// none.
func (s *allocationService) Allocate(ctx context.Context, req dto.AllocationRequest) (*dto.AllocationResult, error) {
	if req.MaxWeight == 0 {
		req.MaxWeight = s.cfg.Allocation.MaxWeight
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, apperror.InvalidInput("service.Allocate", "%v", err)
	}

	result, err := s.allocator.Allocate(req)
	if err != nil {
		s.log.ErrorContext(ctx, "Allocation failed", logger.ErrorField(err))
		return nil, err
	}

	s.log.InfoContext(ctx, "Allocation computed",
		logger.IntField("assets", len(result.Weights)),
		logger.FloatField("expected_return", result.ExpectedReturn),
		logger.FloatField("risk", result.Risk),
		logger.IntField("iterations", result.Iterations),
	)
	return result, nil
}
