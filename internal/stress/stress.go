// Package stress applies the configured shock scenarios to a return series.
package stress

import (
	"fmt"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/analytics"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/utils"
)

type Tester struct {
	cfg        config.Stress
	confidence float64
}

func NewTester(cfg config.Stress, confidence float64) *Tester {
	return &Tester{cfg: cfg, confidence: confidence}
}

// Run evaluates every scenario. Scenario sizes and probabilities are
// parameters, not estimates drawn from the data.
func (t *Tester) Run(returns []float64) (dto.StressResults, error) {
	if err := analytics.ValidateReturns("stress.Run", returns); err != nil {
		return dto.StressResults{}, err
	}

	return dto.StressResults{
		BaseValue:       t.cfg.BaseValue,
		MarketCrash:     t.shock(t.cfg.MarketCrash),
		VolatilitySpike: t.volatilitySpike(returns),
		LiquidityCrisis: t.liquidityCrisis(),
		RegulatoryShock: t.shock(t.cfg.RegulatoryShock),
	}, nil
}

func (t *Tester) shock(s config.ShockScenario) dto.ShockResult {
	return dto.ShockResult{
		Description:          s.Description,
		ImmediateLoss:        s.Shock,
		PortfolioValue:       t.cfg.BaseValue * (1 + s.Shock),
		RecoveryEstimateDays: s.RecoveryPeriods,
		ProbabilityEstimate:  s.Probability,
	}
}

// volatilitySpike scales the realised volatility and the historical VaR by
// the scenario multiplier.
func (t *Tester) volatilitySpike(returns []float64) dto.VolatilityResult {
	s := t.cfg.VolatilitySpike
	_, vol := analytics.PopMeanStd(returns)
	return dto.VolatilityResult{
		Description:   s.Description,
		Periods:       s.Periods,
		NewVolatility: vol * s.Multiplier,
		StressedVaR:   analytics.Percentile(returns, t.confidence*100) * s.Multiplier,
		RiskIncrease:  s.Multiplier - 1,
	}
}

func (t *Tester) liquidityCrisis() dto.LiquidityResult {
	s := t.cfg.LiquidityCrisis
	return dto.LiquidityResult{
		Description:    s.Description,
		SpreadIncrease: s.SpreadIncrease,
		Periods:        s.Periods,
		Assessment: fmt.Sprintf("reduced trading opportunities: spreads %s wider for %d periods",
			utils.FormatPercentage(s.SpreadIncrease), s.Periods),
	}
}
