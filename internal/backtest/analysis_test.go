package backtest

import (
	"math"
	"testing"
	"time"

	"golang-p2p-risk/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	result := &dto.BacktestResult{
		InitialCapital: 1000,
		FinalCapital:   1150,
		Trades: []dto.Trade{
			{Timestamp: start.Add(14 * time.Hour), NetProfit: 100, ROI: 2, Hour: 14},
			{Timestamp: start.Add(15 * time.Hour), NetProfit: 100, ROI: 4, Hour: 9},
			{Timestamp: start.Add(16 * time.Hour), NetProfit: -100, ROI: -2, Hour: 14},
			{Timestamp: start.Add(17 * time.Hour), NetProfit: 50, ROI: 1, Hour: 20},
		},
	}

	got := Analyze(result, 252)
	require.NotNil(t, got)

	assert.Equal(t, 4, got.TotalTrades)
	assert.Equal(t, 3, got.WinningTrades)
	assert.Equal(t, 1, got.LosingTrades)
	assert.InDelta(t, 150, got.TotalProfit, 1e-12)
	assert.InDelta(t, 37.5, got.AvgProfitPerTrade, 1e-12)
	assert.InDelta(t, 75, got.WinRate, 1e-12)
	assert.InDelta(t, -50, got.MaxDrawdown, 1e-12)
	assert.InDelta(t, 15, got.TotalReturn, 1e-12)
	assert.True(t, got.ProfitFactor.Defined)
	assert.InDelta(t, 2.5, got.ProfitFactor.Value, 1e-12)

	roi := []float64{0.02, 0.04, -0.02, 0.01}
	mean := 0.0125
	var ss float64
	for _, r := range roi {
		ss += (r - mean) * (r - mean)
	}
	std := math.Sqrt(ss / 4)
	assert.InDelta(t, mean/std*math.Sqrt(252), got.SharpeRatio, 1e-9)

	assert.Equal(t, []dto.HourlyPerformance{
		{Hour: 9, MeanProfit: 100, Count: 1},
		{Hour: 14, MeanProfit: 0, Count: 2},
		{Hour: 20, MeanProfit: 50, Count: 1},
	}, got.HourlyPerformance)
}

func TestAnalyze_NoLossesAndConstantROI(t *testing.T) {
	result := &dto.BacktestResult{
		InitialCapital: 1000,
		FinalCapital:   1200,
		Trades: []dto.Trade{
			{NetProfit: 100, ROI: 1},
			{NetProfit: 100, ROI: 1},
		},
	}

	got := Analyze(result, 252)
	require.NotNil(t, got)
	assert.False(t, got.ProfitFactor.Defined)
	assert.Equal(t, dto.ReasonNoLosses, got.ProfitFactor.Reason)
	assert.Equal(t, 0.0, got.SharpeRatio)
	assert.Equal(t, 0.0, got.MaxDrawdown)
}

func TestAnalyze_NoTrades(t *testing.T) {
	assert.Nil(t, Analyze(&dto.BacktestResult{}, 252))
	assert.Nil(t, Analyze(nil, 252))
}
