package analytics

import (
	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/apperror"
)

const minObservations = 2

// ComputeRiskMetrics builds the core risk block for a per-period return
// series. Ratios use returns annualised as r*tradingDays; VaR, CVaR and
// drawdowns are reported per period.
//
// Fewer than two observations yield zeroed metrics flagged InsufficientData
// together with an ErrInsufficientData error, so callers can still report.
func ComputeRiskMetrics(returns []float64, cfg config.Risk) (dto.RiskMetrics, error) {
	const op = "analytics.ComputeRiskMetrics"

	if err := ValidateReturns(op, returns); err != nil {
		return dto.RiskMetrics{}, err
	}
	if len(returns) < minObservations {
		return dto.RiskMetrics{
			Observations:     len(returns),
			VaR:              dto.VaRMetrics{ConfidenceLevel: cfg.ConfidenceLevel},
			InsufficientData: true,
		}, apperror.InsufficientData(op, minObservations, len(returns))
	}

	annual := Annualize(returns, cfg.TradingDays)
	annualMean, annualVol := PopMeanStd(annual)
	drawdown := DrawdownStatistics(returns)

	return dto.RiskMetrics{
		Observations: len(returns),
		AnnualReturn: annualMean,
		Volatility:   annualVol,
		SharpeRatio:  SharpeRatio(annual, cfg.RiskFreeRate),
		SortinoRatio: SortinoRatio(annual),
		CalmarRatio:  CalmarRatio(annualMean, drawdown.MaxDrawdown),
		VaR:          ValueAtRisk(returns, cfg.ConfidenceLevel),
		CVaR:         ConditionalVaR(returns, cfg.ConfidenceLevel),
		Drawdown:     drawdown,
		Skewness:     Skewness(returns),
		Kurtosis:     ExcessKurtosis(returns),
	}, nil
}

// ComputeRiskAdjusted builds the information, Omega, tail, Ulcer and Martin
// figures. It shares the insufficient-data contract of ComputeRiskMetrics.
func ComputeRiskAdjusted(returns []float64, cfg config.Risk) (dto.RiskAdjustedPerformance, error) {
	const op = "analytics.ComputeRiskAdjusted"

	if err := ValidateReturns(op, returns); err != nil {
		return dto.RiskAdjustedPerformance{}, err
	}
	if len(returns) < minObservations {
		return dto.RiskAdjustedPerformance{
			OmegaRatio: OmegaRatio(returns),
		}, apperror.InsufficientData(op, minObservations, len(returns))
	}

	ulcer := UlcerIndex(returns)
	return dto.RiskAdjustedPerformance{
		InformationRatio: InformationRatio(returns, cfg.RiskFreeRate, cfg.TradingDays),
		OmegaRatio:       OmegaRatio(returns),
		TailRatio:        TailRatio(returns),
		MartinRatio:      MartinRatio(returns, ulcer),
		UlcerIndex:       ulcer,
	}, nil
}
