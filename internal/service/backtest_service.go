package service

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"sort"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/backtest"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/internal/strategy"
	"golang-p2p-risk/pkg/apperror"
	"golang-p2p-risk/pkg/cache"
	"golang-p2p-risk/pkg/common"
	"golang-p2p-risk/pkg/id"
	"golang-p2p-risk/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
)

// BacktestService runs the backtest engine for a request.
type BacktestService interface {
	RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error)
}

type backtestService struct {
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	cache     cache.Cache
	engine    *backtest.Engine
}

// NewBacktestService wires the engine to the configured fees and capital.
func NewBacktestService(
	cfg *config.Config,
	log *logger.Logger,
	validator *goValidator.Validate,
	inmemoryCache cache.Cache,
) BacktestService {
	return &backtestService{
		cfg:       cfg,
		log:       log,
		validator: validator,
		cache:     inmemoryCache,
		engine:    backtest.NewEngine(cfg.Fees, cfg.Backtest.InitialCapital, cfg.Risk.TradingDays),
	}
}

// RunBacktest replays the snapshots under the requested strategy. Results are
// memoised per dataset and configuration; every call gets its own copy.
func (s *backtestService) RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperror.InvalidInput("service.RunBacktest", "%v", err)
	}

	opp, err := strategy.Lookup(req.Opportunity)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf(common.KEY_BACKTEST_RESULT, fingerprint(req.Snapshots), opp.GetType(), req.Strategy.Key())
	if cached, ok := cache.GetFromCache[*dto.BacktestResult](s.cache, key); ok {
		s.log.DebugContext(ctx, "Backtest served from cache", logger.StringField("run_id", cached.RunID))
		return cached.Clone(), nil
	}

	result, err := s.engine.Run(req.Snapshots, req.Strategy, opp)
	if err != nil {
		s.log.ErrorContext(ctx, "Backtest failed", logger.ErrorField(err), logger.StringField("strategy", req.Strategy.Key()))
		return nil, err
	}
	result.RunID = id.New()

	if result.NoTrades {
		s.log.InfoContext(ctx, "Backtest produced no trades",
			logger.StringField("run_id", result.RunID),
			logger.StringField("reason", result.Reason),
			logger.StringField("strategy", req.Strategy.Key()),
		)
	} else {
		s.log.DebugContext(ctx, "Backtest simulation completed",
			logger.StringField("run_id", result.RunID),
			logger.IntField("total_trades", len(result.Trades)),
			logger.FloatField("final_capital", result.FinalCapital),
		)
	}

	s.cache.Set(key, result, s.cfg.Sweep.CacheTTL)
	return result.Clone(), nil
}

// fingerprint hashes timestamps and venue prices so that identical datasets
// share cache entries.
func fingerprint(snapshots []dto.MarketSnapshot) string {
	h := fnv.New64a()
	buf := make([]byte, 8)
	for _, snap := range snapshots {
		binary.LittleEndian.PutUint64(buf, uint64(snap.Timestamp.UnixNano()))
		h.Write(buf)

		venues := make([]string, 0, len(snap.Prices))
		for v := range snap.Prices {
			venues = append(venues, v)
		}
		sort.Strings(venues)
		for _, v := range venues {
			h.Write([]byte(v))
			binary.LittleEndian.PutUint64(buf, math.Float64bits(snap.Prices[v]))
			h.Write(buf)
		}
	}
	return fmt.Sprintf("%d-%016x", len(snapshots), h.Sum64())
}
