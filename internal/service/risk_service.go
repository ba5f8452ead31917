package service

import (
	"context"
	"errors"
	"time"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/analytics"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/internal/montecarlo"
	"golang-p2p-risk/internal/sizing"
	"golang-p2p-risk/internal/stress"
	"golang-p2p-risk/pkg/apperror"
	"golang-p2p-risk/pkg/id"
	"golang-p2p-risk/pkg/logger"
)

// RiskService composes the risk analytics into reports.
type RiskService interface {
	GenerateReport(ctx context.Context, req dto.RiskReportRequest) (*dto.RiskReport, error)
	ReportFromBacktest(ctx context.Context, result *dto.BacktestResult) (*dto.RiskReport, error)
	Project(ctx context.Context, req dto.RiskReportRequest) (*dto.MonteCarloSummary, error)
	StressTest(ctx context.Context, req dto.RiskReportRequest) (*dto.StressResults, error)
}

type riskService struct {
	cfg       *config.Config
	log       *logger.Logger
	projector *montecarlo.Projector
	sizer     *sizing.Sizer
	tester    *stress.Tester
}

func NewRiskService(cfg *config.Config, log *logger.Logger) RiskService {
	return &riskService{
		cfg:       cfg,
		log:       log,
		projector: montecarlo.NewProjector(cfg.MonteCarlo),
		sizer:     sizing.NewSizer(cfg.Sizing, cfg.Risk.ConfidenceLevel),
		tester:    stress.NewTester(cfg.Stress, cfg.Risk.ConfidenceLevel),
	}
}

// returns picks the raw return series when one is supplied and otherwise
// derives it from the trade records.
func (s *riskService) returns(req dto.RiskReportRequest) ([]float64, string, error) {
	if len(req.Returns) > 0 {
		if err := analytics.ValidateReturns("service.RiskReturns", req.Returns); err != nil {
			return nil, dto.SourceReturns, err
		}
		return req.Returns, dto.SourceReturns, nil
	}
	r, err := analytics.ReturnsFromTrades(req.Trades, s.cfg.Backtest.InitialCapital)
	return r, dto.SourceTrades, err
}

// GenerateReport builds the full risk report. A series too short for
// variance based metrics still yields a report, flagged InsufficientData,
// without the Monte Carlo projection.
func (s *riskService) GenerateReport(ctx context.Context, req dto.RiskReportRequest) (*dto.RiskReport, error) {
	returns, source, err := s.returns(req)
	if err != nil {
		s.log.ErrorContext(ctx, "Rejected risk report input", logger.ErrorField(err))
		return nil, err
	}
	return s.report(ctx, returns, source)
}

// ReportFromBacktest reports on the trades of a backtest run, compounding
// against the run's own initial capital.
func (s *riskService) ReportFromBacktest(ctx context.Context, result *dto.BacktestResult) (*dto.RiskReport, error) {
	if result == nil {
		return nil, apperror.InvalidInput("service.ReportFromBacktest", "backtest result is nil")
	}
	if err := result.Err(); err != nil {
		return nil, err
	}

	returns, err := analytics.ReturnsFromTrades(result.Records(), result.InitialCapital)
	if err != nil {
		s.log.ErrorContext(ctx, "Rejected backtest trades", logger.ErrorField(err))
		return nil, err
	}

	report, err := s.report(ctx, returns, dto.SourceBacktest)
	if err != nil {
		return nil, err
	}
	report.BacktestRunID = result.RunID
	return report, nil
}

func (s *riskService) report(ctx context.Context, returns []float64, source string) (*dto.RiskReport, error) {
	var err error
	report := &dto.RiskReport{
		ID:           id.New(),
		GeneratedAt:  time.Now().UTC(),
		Source:       source,
		Observations: len(returns),
	}
	ctx = logger.NewContext(ctx, s.log.With(logger.StringField("report_id", report.ID)))
	s.log.InfoContext(ctx, "Generating risk report",
		logger.StringField("source", source),
		logger.IntField("observations", len(returns)),
	)

	report.Metrics, err = analytics.ComputeRiskMetrics(returns, s.cfg.Risk)
	insufficient := errors.Is(err, apperror.ErrInsufficientData)
	if err != nil && !insufficient {
		return nil, err
	}

	report.RiskAdjusted, err = analytics.ComputeRiskAdjusted(returns, s.cfg.Risk)
	if err != nil && !errors.Is(err, apperror.ErrInsufficientData) {
		return nil, err
	}

	if insufficient {
		s.log.WarnContext(ctx, "Return series too short for variance based metrics", logger.IntField("observations", len(returns)))
		report.MonteCarlo = dto.MonteCarloSummary{
			Simulations: s.cfg.MonteCarlo.Simulations,
			Horizon:     s.cfg.MonteCarlo.Horizon,
			Seed:        s.cfg.MonteCarlo.Seed,
		}
	} else {
		report.MonteCarlo, err = s.projector.Project(ctx, returns)
		if err != nil {
			s.log.ErrorContext(ctx, "Monte Carlo projection failed", logger.ErrorField(err))
			return nil, err
		}
	}

	report.Sizing = s.sizer.Size(sizing.Inputs{
		Returns:      returns,
		MaxDrawdown:  report.Metrics.Drawdown.MaxDrawdown,
		MonteCarloP5: report.MonteCarlo.Percentile5,
		NoProjection: insufficient,
	})

	report.Stress, err = s.tester.Run(returns)
	if err != nil {
		return nil, err
	}

	report.Recommendations = recommend(report.Metrics, report.Sizing)

	s.log.InfoContext(ctx, "Risk report generated",
		logger.FloatField("sharpe_ratio", report.Metrics.SharpeRatio),
		logger.FloatField("max_drawdown", report.Metrics.Drawdown.MaxDrawdown),
		logger.FloatField("recommended_size", report.Sizing.Recommended),
		logger.BoolField("insufficient_data", report.Metrics.InsufficientData),
	)
	return report, nil
}

func (s *riskService) Project(ctx context.Context, req dto.RiskReportRequest) (*dto.MonteCarloSummary, error) {
	returns, _, err := s.returns(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	summary, err := s.projector.Project(ctx, returns)
	if err != nil {
		s.log.ErrorContext(ctx, "Monte Carlo projection failed", logger.ErrorField(err))
		return nil, err
	}
	s.log.InfoContext(ctx, "Monte Carlo projection completed",
		logger.IntField("simulations", summary.Simulations),
		logger.IntField("horizon", summary.Horizon),
		logger.DurationField("elapsed", time.Since(start)),
	)
	return &summary, nil
}

func (s *riskService) StressTest(ctx context.Context, req dto.RiskReportRequest) (*dto.StressResults, error) {
	returns, _, err := s.returns(req)
	if err != nil {
		return nil, err
	}

	results, err := s.tester.Run(returns)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "Stress scenarios evaluated", logger.FloatField("base_value", results.BaseValue))
	return &results, nil
}
