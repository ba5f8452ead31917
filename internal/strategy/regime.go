package strategy

import (
	"math"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/analytics"
	"golang-p2p-risk/internal/dto"
)

// VolatilityProfile classifies the opportunity's buy price volatility. The
// thresholds are quantiles of the rolling standard deviation of period
// returns over the whole series.
type VolatilityProfile struct {
	Window        int
	Rolling       []float64
	LowThreshold  float64
	HighThreshold float64
	Current       float64
	Regime        dto.VolatilityRegime
}

// RegimeStrategy pairs a regime with the preset traded in it.
type RegimeStrategy struct {
	Regime dto.VolatilityRegime
	Preset config.RegimePreset
}

// RegimeStrategies lists the presets from calm to volatile.
func RegimeStrategies(cfg config.Regime) []RegimeStrategy {
	return []RegimeStrategy{
		{Regime: dto.RegimeLow, Preset: cfg.Low},
		{Regime: dto.RegimeMedium, Preset: cfg.Medium},
		{Regime: dto.RegimeHigh, Preset: cfg.High},
	}
}

func ProfileVolatility(snapshots []dto.MarketSnapshot, opp Opportunity, cfg config.Regime) (VolatilityProfile, error) {
	profile := VolatilityProfile{
		Window:  cfg.Window,
		Current: math.NaN(),
		Regime:  dto.RegimeUnknown,
	}

	prices := make([]float64, len(snapshots))
	for i, s := range snapshots {
		q, err := opp.Quote(s)
		if err != nil {
			return profile, err
		}
		prices[i] = q.BuyPrice
	}

	changes := make([]float64, len(prices))
	for i := range changes {
		if i == 0 || prices[i-1] == 0 {
			changes[i] = math.NaN()
			continue
		}
		changes[i] = prices[i]/prices[i-1] - 1
	}

	profile.Rolling = analytics.RollingSampleStd(changes, cfg.Window)

	defined := make([]float64, 0, len(profile.Rolling))
	for _, v := range profile.Rolling {
		if !math.IsNaN(v) {
			defined = append(defined, v)
		}
	}
	if len(defined) == 0 {
		return profile, nil
	}

	thresholds := analytics.Percentiles(defined, cfg.LowQuantile*100, cfg.HighQuantile*100)
	profile.LowThreshold = thresholds[0]
	profile.HighThreshold = thresholds[1]
	profile.Current = defined[len(defined)-1]
	profile.Regime = classify(profile.Current, profile.LowThreshold, profile.HighThreshold)

	return profile, nil
}

func classify(current, low, high float64) dto.VolatilityRegime {
	switch {
	case current < low:
		return dto.RegimeLow
	case current > high:
		return dto.RegimeHigh
	default:
		return dto.RegimeMedium
	}
}
