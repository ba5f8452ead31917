// Package sizing turns a return series into position size fractions.
package sizing

import (
	"math"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/analytics"
	"golang-p2p-risk/internal/dto"
)

// Inputs are the figures the sizing rules read. MaxDrawdown and
// MonteCarloP5 come from the risk metrics and the Monte Carlo projection of
// the same series. NoProjection marks a series the projection was skipped
// for; MonteCarloBased is then zero.
type Inputs struct {
	Returns      []float64
	MaxDrawdown  float64
	MonteCarloP5 float64
	NoProjection bool
}

type Sizer struct {
	cfg        config.Sizing
	confidence float64
}

func NewSizer(cfg config.Sizing, confidence float64) *Sizer {
	return &Sizer{cfg: cfg, confidence: confidence}
}

// Size evaluates every rule. Recommended blends Kelly, fixed fractional and
// volatility targeting and is capped by RecommendedCap.
func (s *Sizer) Size(in Inputs) dto.PositionSizing {
	stats := Statistics(in.Returns)

	out := dto.PositionSizing{
		Kelly:            s.Kelly(stats),
		FixedFractional:  s.cfg.FixedFraction,
		VolatilityTarget: s.VolatilityTarget(in.Returns),
		RiskAdjusted:     s.capped(in.MaxDrawdown, s.cfg.RiskAdjustedCap),
		MonteCarloBased:  s.capped(in.MonteCarloP5, s.cfg.MonteCarloCap),
		VaRConstrained:   s.VaRConstrained(in.Returns),
		Statistics:       stats,
	}
	if in.NoProjection {
		out.MonteCarloBased = 0
	}

	blend := (out.Kelly + out.FixedFractional + out.VolatilityTarget) / 3
	out.Recommended = clamp(blend, 0, s.cfg.RecommendedCap)
	return out
}

// Statistics splits returns into wins (> 0) and losses (<= 0).
func Statistics(returns []float64) dto.SizingStatistics {
	var stats dto.SizingStatistics
	if len(returns) == 0 {
		stats.ProfitFactor = dto.UndefinedRatio(dto.ReasonNoLosses)
		return stats
	}

	var wins, losses []float64
	for _, r := range returns {
		if r > 0 {
			wins = append(wins, r)
		} else {
			losses = append(losses, r)
		}
	}
	stats.WinRate = float64(len(wins)) / float64(len(returns))
	stats.AvgWin = analytics.Mean(wins)
	stats.AvgLoss = analytics.Mean(losses)

	if stats.AvgLoss == 0 {
		stats.ProfitFactor = dto.UndefinedRatio(dto.ReasonNoLosses)
	} else {
		stats.ProfitFactor = dto.DefinedRatio(math.Abs(stats.AvgWin / stats.AvgLoss))
	}
	return stats
}

// Kelly is the fractional Kelly bet (b*p - q)/b scaled by KellyMultiplier and
// clamped to [0, KellyCap].
func (s *Sizer) Kelly(stats dto.SizingStatistics) float64 {
	if stats.AvgLoss == 0 || stats.AvgWin <= 0 {
		return 0
	}
	b := stats.AvgWin / math.Abs(stats.AvgLoss)
	p := stats.WinRate
	f := (b*p - (1 - p)) / b
	return clamp(s.cfg.KellyMultiplier*f, 0, s.cfg.KellyCap)
}

// VolatilityTarget sizes so that realised volatility hits TargetVolatility.
func (s *Sizer) VolatilityTarget(returns []float64) float64 {
	vol := analytics.SampleStd(returns)
	if vol == 0 {
		return s.cfg.FixedFraction
	}
	return clamp(s.cfg.TargetVolatility/vol, 0, s.cfg.VolatilityCap)
}

// VaRConstrained maximises w*mean(r) subject to VaR(w*r) >= VaRLimit and
// 0 <= w <= 1. Historical VaR scales linearly in w, so the feasible weights
// form an interval and the optimum is one of its ends.
func (s *Sizer) VaRConstrained(returns []float64) dto.VaRConstrainedSize {
	limit := s.cfg.VaRLimit
	fallback := dto.VaRConstrainedSize{Weight: s.cfg.VaRFallback, VaRLimit: limit}
	if len(returns) == 0 {
		return fallback
	}

	v := analytics.Percentile(returns, s.confidence*100)
	lo, hi := 0.0, 1.0
	switch {
	case v < 0:
		hi = math.Min(hi, limit/v)
	case v > 0:
		lo = math.Max(lo, limit/v)
	case limit > 0:
		return fallback
	}
	if lo > hi {
		return fallback
	}

	w := lo
	if analytics.Mean(returns) > 0 {
		w = hi
	}
	return dto.VaRConstrainedSize{Weight: w, VaRLimit: limit, Constrained: true}
}

func (s *Sizer) capped(loss, limit float64) float64 {
	return math.Min(s.cfg.FixedFraction/math.Max(math.Abs(loss), s.cfg.DrawdownFloor), limit)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
