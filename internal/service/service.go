package service

import (
	"golang-p2p-risk/config"
	"golang-p2p-risk/pkg/cache"
	"golang-p2p-risk/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
)

type Service struct {
	BacktestService   BacktestService
	OptimizerService  OptimizerService
	RiskService       RiskService
	AllocationService AllocationService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	validator *goValidator.Validate,
	inmemoryCache cache.Cache,
) *Service {
	backtestService := NewBacktestService(cfg, log, validator, inmemoryCache)
	return &Service{
		BacktestService:   backtestService,
		OptimizerService:  NewOptimizerService(cfg, log, backtestService),
		RiskService:       NewRiskService(cfg, log),
		AllocationService: NewAllocationService(cfg, log, validator),
	}
}
