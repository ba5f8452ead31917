package service

import (
	"context"
	"math"
	"time"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/internal/strategy"
	"golang-p2p-risk/pkg/id"
	"golang-p2p-risk/pkg/logger"
	"golang-p2p-risk/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// OptimizerService sweeps strategy parameters over a snapshot series.
type OptimizerService interface {
	OptimizeThreshold(ctx context.Context, req dto.BacktestRequest) (*dto.SweepResult, error)
	OptimizePositionSize(ctx context.Context, req dto.BacktestRequest) (*dto.SweepResult, error)
	AdaptiveStrategies(ctx context.Context, req dto.BacktestRequest) (*dto.RegimeAnalysis, error)
	Optimize(ctx context.Context, req dto.BacktestRequest) (*dto.OptimizationReport, error)
}

type optimizerService struct {
	cfg      *config.Config
	log      *logger.Logger
	backtest BacktestService
}

func NewOptimizerService(cfg *config.Config, log *logger.Logger, backtestService BacktestService) OptimizerService {
	return &optimizerService{
		cfg:      cfg,
		log:      log,
		backtest: backtestService,
	}
}

type sweepSpec struct {
	dimension dto.SweepDimension
	grid      config.Grid
	apply     func(dto.StrategyConfig, float64) dto.StrategyConfig
	current   func(dto.StrategyConfig) float64
	score     func(point dto.SweepPoint, points []dto.SweepPoint) float64
}

var thresholdSweep = sweepSpec{
	dimension: dto.DimensionProfitThreshold,
	apply: func(c dto.StrategyConfig, v float64) dto.StrategyConfig {
		c.MinProfitThreshold = v
		return c
	},
	current: func(c dto.StrategyConfig) float64 { return c.MinProfitThreshold },
	score:   thresholdScore,
}

var positionSweep = sweepSpec{
	dimension: dto.DimensionPositionSize,
	apply: func(c dto.StrategyConfig, v float64) dto.StrategyConfig {
		c.PositionSizePct = v
		return c
	},
	current: func(c dto.StrategyConfig) float64 { return c.PositionSizePct },
	score:   positionScore,
}

// thresholdScore = 0.4*sharpe + 0.3*profit/maxProfit + 0.3*winRate, with the
// profit term dropped when no point made money.
func thresholdScore(p dto.SweepPoint, points []dto.SweepPoint) float64 {
	maxProfit := math.Inf(-1)
	for _, q := range points {
		if q.HasTrades {
			maxProfit = math.Max(maxProfit, q.TotalProfit)
		}
	}
	profitTerm := 0.0
	if maxProfit > 0 {
		profitTerm = p.TotalProfit / maxProfit
	}
	return 0.4*p.SharpeRatio + 0.3*profitTerm + 0.3*p.WinRate/100
}

// positionScore is total return per unit of drawdown, both in percent.
func positionScore(p dto.SweepPoint, _ []dto.SweepPoint) float64 {
	return p.TotalReturn / (math.Abs(p.MaxDrawdown) + 1)
}

func (s *optimizerService) OptimizeThreshold(ctx context.Context, req dto.BacktestRequest) (*dto.SweepResult, error) {
	spec := thresholdSweep
	spec.grid = s.cfg.Sweep.Threshold
	return s.sweep(ctx, req, spec)
}

func (s *optimizerService) OptimizePositionSize(ctx context.Context, req dto.BacktestRequest) (*dto.SweepResult, error) {
	spec := positionSweep
	spec.grid = s.cfg.Sweep.PositionSize
	return s.sweep(ctx, req, spec)
}

// sweep backtests every grid value concurrently, then scores the points in
// grid order. The first point with the highest score wins, so ties go to the
// smallest value.
func (s *optimizerService) sweep(ctx context.Context, req dto.BacktestRequest, spec sweepSpec) (*dto.SweepResult, error) {
	values := spec.grid.Values()
	s.log.InfoContext(ctx, "Starting parameter sweep",
		logger.StringField("dimension", string(spec.dimension)),
		logger.IntField("grid_size", len(values)),
	)

	results := make([]*dto.BacktestResult, len(values))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Sweep.MaxConcurrency)
	for i, v := range values {
		g.Go(func() error {
			if !utils.ShouldContinue(gctx, s.log) {
				return gctx.Err()
			}
			r, err := s.backtest.RunBacktest(gctx, dto.BacktestRequest{
				Snapshots:   req.Snapshots,
				Strategy:    spec.apply(req.Strategy, v),
				Opportunity: req.Opportunity,
			})
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.ErrorContext(ctx, "Parameter sweep failed", logger.ErrorField(err), logger.StringField("dimension", string(spec.dimension)))
		return nil, err
	}

	points := make([]dto.SweepPoint, len(values))
	for i, r := range results {
		points[i] = sweepPoint(i, values[i], r)
	}

	out := &dto.SweepResult{
		Dimension: spec.dimension,
		Points:    points,
		BestIndex: -1,
		BestValue: spec.current(req.Strategy),
		Best:      req.Strategy,
	}
	bestScore := math.Inf(-1)
	for i := range points {
		if !points[i].HasTrades {
			continue
		}
		points[i].Score = spec.score(points[i], points)
		if points[i].Score > bestScore {
			bestScore = points[i].Score
			out.BestIndex = i
		}
	}

	if out.BestIndex < 0 {
		out.Inconclusive = true
		out.Reason = dto.ReasonAllGridsEmpty
		s.log.WarnContext(ctx, "Parameter sweep inconclusive", logger.StringField("dimension", string(spec.dimension)))
		return out, nil
	}

	out.BestValue = points[out.BestIndex].Value
	out.Best = points[out.BestIndex].Strategy
	s.log.InfoContext(ctx, "Parameter sweep completed",
		logger.StringField("dimension", string(spec.dimension)),
		logger.FloatField("best_value", out.BestValue),
		logger.FloatField("best_score", bestScore),
	)
	return out, nil
}

func sweepPoint(index int, value float64, r *dto.BacktestResult) dto.SweepPoint {
	p := dto.SweepPoint{
		Index:     index,
		Value:     value,
		Strategy:  r.Strategy,
		HasTrades: !r.NoTrades,
	}
	if a := r.Analysis; a != nil {
		p.TotalTrades = a.TotalTrades
		p.TotalProfit = a.TotalProfit
		p.SharpeRatio = a.SharpeRatio
		p.WinRate = a.WinRate
		p.TotalReturn = a.TotalReturn
		p.MaxDrawdown = a.MaxDrawdown
	}
	return p
}

// AdaptiveStrategies classifies the current volatility regime and backtests
// the preset of every regime.
func (s *optimizerService) AdaptiveStrategies(ctx context.Context, req dto.BacktestRequest) (*dto.RegimeAnalysis, error) {
	opp, err := strategy.Lookup(req.Opportunity)
	if err != nil {
		return nil, err
	}
	profile, err := strategy.ProfileVolatility(req.Snapshots, opp, s.cfg.Sweep.Regime)
	if err != nil {
		return nil, err
	}

	out := &dto.RegimeAnalysis{
		Window:        profile.Window,
		LowThreshold:  profile.LowThreshold,
		HighThreshold: profile.HighThreshold,
		CurrentRegime: profile.Regime,
	}
	if !math.IsNaN(profile.Current) {
		out.CurrentVolatility = profile.Current
	}

	for _, rs := range strategy.RegimeStrategies(s.cfg.Sweep.Regime) {
		cfg := req.Strategy.WithPreset(rs.Preset)
		r, err := s.backtest.RunBacktest(ctx, dto.BacktestRequest{
			Snapshots:   req.Snapshots,
			Strategy:    cfg,
			Opportunity: req.Opportunity,
		})
		if err != nil {
			return nil, err
		}
		out.Regimes = append(out.Regimes, dto.RegimeResult{
			Regime:   rs.Regime,
			Strategy: cfg,
			Result:   r.Summary(),
		})
	}

	s.log.InfoContext(ctx, "Volatility regime analysis completed",
		logger.StringField("current_regime", string(out.CurrentRegime)),
		logger.FloatField("current_volatility", out.CurrentVolatility),
	)
	return out, nil
}

// Optimize runs both sweeps and the regime analysis, then compares the
// current strategy with the one carrying the optimal threshold and position
// size.
func (s *optimizerService) Optimize(ctx context.Context, req dto.BacktestRequest) (*dto.OptimizationReport, error) {
	report := &dto.OptimizationReport{
		RunID:       id.New(),
		GeneratedAt: time.Now().UTC(),
		Opportunity: req.Opportunity,
	}
	ctx = logger.NewContext(ctx, s.log.With(logger.StringField("run_id", report.RunID)))
	s.log.InfoContext(ctx, "Starting strategy optimisation", logger.IntField("snapshots", len(req.Snapshots)))

	threshold, err := s.OptimizeThreshold(ctx, req)
	if err != nil {
		return nil, err
	}
	position, err := s.OptimizePositionSize(ctx, req)
	if err != nil {
		return nil, err
	}
	adaptive, err := s.AdaptiveStrategies(ctx, req)
	if err != nil {
		return nil, err
	}

	optimized := req.Strategy
	optimized.MinProfitThreshold = threshold.BestValue
	optimized.PositionSizePct = position.BestValue

	current, err := s.backtest.RunBacktest(ctx, req)
	if err != nil {
		return nil, err
	}
	optimizedResult, err := s.backtest.RunBacktest(ctx, dto.BacktestRequest{
		Snapshots:   req.Snapshots,
		Strategy:    optimized,
		Opportunity: req.Opportunity,
	})
	if err != nil {
		return nil, err
	}

	report.OptimalThreshold = threshold.BestValue
	report.OptimalPositionSize = position.BestValue
	report.ThresholdSweep = *threshold
	report.PositionSweep = *position
	report.Adaptive = *adaptive
	report.Current = current.Summary()
	report.Optimized = optimizedResult.Summary()
	report.KeyImprovements = keyImprovements(current.Analysis, optimizedResult.Analysis)

	s.log.InfoContext(ctx, "Strategy optimisation completed",
		logger.FloatField("optimal_threshold", report.OptimalThreshold),
		logger.FloatField("optimal_position_size", report.OptimalPositionSize),
		logger.FloatField("profit_increase", report.KeyImprovements.ProfitIncrease),
	)
	return report, nil
}

func keyImprovements(current, optimized *dto.BacktestAnalysis) dto.KeyImprovements {
	var cur, opt dto.BacktestAnalysis
	if current != nil {
		cur = *current
	}
	if optimized != nil {
		opt = *optimized
	}

	out := dto.KeyImprovements{
		ProfitIncrease:    opt.TotalProfit - cur.TotalProfit,
		SharpeImprovement: opt.SharpeRatio - cur.SharpeRatio,
	}
	if cur.TotalTrades > 0 && cur.AvgProfitPerTrade != 0 {
		out.TradeEfficiency = opt.AvgProfitPerTrade / cur.AvgProfitPerTrade
	}
	return out
}
