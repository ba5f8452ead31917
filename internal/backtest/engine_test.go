package backtest

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/internal/strategy"
	"golang-p2p-risk/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func zeroFees() config.Fees {
	return config.Fees{
		TaxRate: 0,
		Venues: map[string]config.FeeSchedule{
			dto.VenueZebpay: {},
			dto.VenueKucoin: {},
		},
	}
}

func defaultStrategy() dto.StrategyConfig {
	return dto.NewStrategyConfig(config.Default().Backtest.Strategy)
}

func express(t *testing.T) strategy.Opportunity {
	t.Helper()
	opp, err := strategy.Lookup("express")
	require.NoError(t, err)
	return opp
}

func snapshot(at time.Time, buy, sell float64) dto.MarketSnapshot {
	return dto.MarketSnapshot{
		Timestamp: at,
		Prices: map[string]float64{
			dto.VenueZebpay:     buy,
			dto.VenueKucoin:     buy - 0.3,
			dto.VenueP2PExpress: sell,
			dto.VenueP2PRegular: sell - 0.5,
		},
		Volume: 1000,
	}
}

func randomSnapshots(seed int64, n int) []dto.MarketSnapshot {
	rng := rand.New(rand.NewSource(seed))
	out := make([]dto.MarketSnapshot, n)
	for i := range out {
		buy := 83 + rng.Float64()*2
		out[i] = snapshot(start.Add(time.Duration(i)*time.Hour), buy, buy+rng.Float64()*4-0.5)
	}
	return out
}

func TestEngine_Run_AcceptsProfitableSnapshot(t *testing.T) {
	engine := NewEngine(zeroFees(), 100000, 252)

	result, err := engine.Run([]dto.MarketSnapshot{snapshot(start, 83.0, 85.5)}, defaultStrategy(), express(t))
	require.NoError(t, err)
	require.Len(t, result.Trades, 1)

	trade := result.Trades[0]
	quantity := 10000 / 83.0
	assert.InDelta(t, quantity, trade.Quantity, 1e-9)
	assert.InDelta(t, (85.5-83.0)*quantity, trade.NetProfit, 1e-9)
	assert.InDelta(t, 10000, trade.Investment, 1e-9)
	assert.False(t, result.NoTrades)
	assert.InDelta(t, 100000+trade.NetProfit, result.FinalCapital, 1e-9)
	assert.Equal(t, []float64{100000, result.FinalCapital}, result.EquityCurve)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, 1, result.Analysis.TotalTrades)
	assert.NoError(t, result.Err())
}

func TestEngine_Run_NoTrades(t *testing.T) {
	engine := NewEngine(zeroFees(), 100000, 252)
	tests := []struct {
		name      string
		snapshots []dto.MarketSnapshot
		reason    string
	}{
		{name: "empty series", snapshots: nil, reason: dto.ReasonEmptySeries},
		{
			name: "below threshold",
			snapshots: []dto.MarketSnapshot{
				snapshot(start, 83.0, 83.5),
				snapshot(start.Add(time.Hour), 83.0, 82.0),
			},
			reason: dto.ReasonNoQualifying,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Run(tt.snapshots, defaultStrategy(), express(t))
			require.NoError(t, err)

			assert.True(t, result.NoTrades)
			assert.Equal(t, tt.reason, result.Reason)
			assert.Empty(t, result.Trades)
			assert.Nil(t, result.Analysis)
			assert.Equal(t, 100000.0, result.FinalCapital)

			var empty *apperror.EmptyResultError
			require.True(t, errors.As(result.Err(), &empty))
			assert.True(t, errors.Is(result.Err(), apperror.ErrEmptyResult))
		})
	}
}

func TestEngine_Run_RejectsBadInput(t *testing.T) {
	engine := NewEngine(zeroFees(), 100000, 252)
	tests := []struct {
		name      string
		snapshots []dto.MarketSnapshot
	}{
		{
			name: "non monotonic timestamps",
			snapshots: []dto.MarketSnapshot{
				snapshot(start.Add(time.Hour), 83, 85.5),
				snapshot(start, 83, 85.5),
			},
		},
		{
			name: "missing venue price",
			snapshots: []dto.MarketSnapshot{
				{Timestamp: start, Prices: map[string]float64{dto.VenueZebpay: 83}},
			},
		},
		{
			name:      "non positive price",
			snapshots: []dto.MarketSnapshot{snapshot(start, 0, 85.5)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Run(tt.snapshots, defaultStrategy(), express(t))
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
		})
	}
}

func TestEngine_Run_CompoundsPositionSize(t *testing.T) {
	cfg := defaultStrategy()
	cfg.MaxTradeAmount = 1e9
	cfg.MinProfitThreshold = 0
	engine := NewEngine(zeroFees(), 100000, 252)

	result, err := engine.Run([]dto.MarketSnapshot{
		snapshot(start, 100, 110),
		snapshot(start.Add(time.Hour), 100, 110),
	}, cfg, express(t))
	require.NoError(t, err)
	require.Len(t, result.Trades, 2)

	assert.InDelta(t, 10000, result.Trades[0].Investment, 1e-9)
	assert.InDelta(t, 1000, result.Trades[0].NetProfit, 1e-9)
	assert.InDelta(t, 10100, result.Trades[1].Investment, 1e-9)
	assert.InDelta(t, 102010, result.FinalCapital, 1e-9)
}

func TestEngine_Run_AppliesVenueFees(t *testing.T) {
	fees := config.Default().Fees
	engine := NewEngine(fees, 100000, 252)
	cfg := defaultStrategy()
	cfg.MinProfitThreshold = 0

	result, err := engine.Run([]dto.MarketSnapshot{snapshot(start, 83.0, 95.0)}, cfg, express(t))
	require.NoError(t, err)
	require.Len(t, result.Trades, 1)

	qty := 10000 / 83.0
	cost := 10000*1.0025 + 8*83.0
	revenue := 95.0 * qty * 0.99
	assert.InDelta(t, revenue-cost, result.Trades[0].NetProfit, 1e-9)
}

func TestEngine_Run_Deterministic(t *testing.T) {
	engine := NewEngine(zeroFees(), 100000, 252)
	snapshots := randomSnapshots(11, 500)
	cfg := defaultStrategy()

	first, err := engine.Run(snapshots, cfg, express(t))
	require.NoError(t, err)
	second, err := engine.Run(snapshots, cfg, express(t))
	require.NoError(t, err)

	assert.NotEmpty(t, first.Trades)
	assert.Equal(t, first.Trades, second.Trades)
	assert.Equal(t, first.FinalCapital, second.FinalCapital)
	assert.Equal(t, first.EquityCurve, second.EquityCurve)
}
