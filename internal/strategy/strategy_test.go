package strategy

import (
	"errors"
	"math"
	"testing"
	"time"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantBuy  string
		wantSell string
		wantErr  bool
	}{
		{name: "express", input: "express", wantBuy: dto.VenueZebpay, wantSell: dto.VenueP2PExpress},
		{name: "case and spaces", input: " Regular ", wantBuy: dto.VenueZebpay, wantSell: dto.VenueP2PRegular},
		{name: "kucoin", input: "kucoin_express", wantBuy: dto.VenueKucoin, wantSell: dto.VenueP2PExpress},
		{name: "unknown", input: "arbitrage", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opp, err := Lookup(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
				return
			}
			require.NoError(t, err)

			q, err := opp.Quote(dto.MarketSnapshot{
				Timestamp: start,
				Prices: map[string]float64{
					dto.VenueZebpay: 1, dto.VenueKucoin: 2, dto.VenueP2PExpress: 3, dto.VenueP2PRegular: 4,
				},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantBuy, q.BuyVenue)
			assert.Equal(t, tt.wantSell, q.SellVenue)
			assert.Equal(t, tt.wantBuy, opp.FeeVenue())
		})
	}
	assert.Equal(t, []string{"express", "kucoin_express", "regular"}, Names())
}

func TestQuote_MissingVenue(t *testing.T) {
	opp, err := Lookup("express")
	require.NoError(t, err)

	_, err = opp.Quote(dto.MarketSnapshot{Timestamp: start, Prices: map[string]float64{dto.VenueZebpay: 83}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}

func snapshotsFromPrices(prices []float64) []dto.MarketSnapshot {
	out := make([]dto.MarketSnapshot, len(prices))
	for i, p := range prices {
		out[i] = dto.MarketSnapshot{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Prices:    map[string]float64{dto.VenueZebpay: p, dto.VenueP2PExpress: p + 2},
		}
	}
	return out
}

func TestProfileVolatility(t *testing.T) {
	cfg := config.Default().Sweep.Regime
	cfg.Window = 3
	opp, err := Lookup("express")
	require.NoError(t, err)

	calm := []float64{100, 100.1, 100, 100.1, 100, 100.1, 100}
	wild := []float64{110, 95, 112, 90}

	profile, err := ProfileVolatility(snapshotsFromPrices(append(calm, wild...)), opp, cfg)
	require.NoError(t, err)

	assert.Len(t, profile.Rolling, len(calm)+len(wild))
	assert.True(t, math.IsNaN(profile.Rolling[0]))
	assert.True(t, math.IsNaN(profile.Rolling[2]))
	assert.False(t, math.IsNaN(profile.Rolling[3]))
	assert.LessOrEqual(t, profile.LowThreshold, profile.HighThreshold)
	assert.Equal(t, dto.RegimeHigh, profile.Regime)
}

func TestProfileVolatility_TooShort(t *testing.T) {
	opp, err := Lookup("express")
	require.NoError(t, err)

	profile, err := ProfileVolatility(snapshotsFromPrices([]float64{100, 101}), opp, config.Default().Sweep.Regime)
	require.NoError(t, err)
	assert.Equal(t, dto.RegimeUnknown, profile.Regime)
	assert.True(t, math.IsNaN(profile.Current))
}

func TestRegimeStrategies(t *testing.T) {
	cfg := config.Default().Sweep.Regime
	got := RegimeStrategies(cfg)

	require.Len(t, got, 3)
	assert.Equal(t, dto.RegimeLow, got[0].Regime)
	assert.Equal(t, 75.0, got[0].Preset.MinProfitThreshold)
	assert.Equal(t, 150.0, got[2].Preset.MinProfitThreshold)
}
