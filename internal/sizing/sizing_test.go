package sizing

import (
	"math/rand"
	"testing"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/analytics"
	"golang-p2p-risk/internal/dto"

	"github.com/stretchr/testify/assert"
)

func newSizer() *Sizer {
	cfg := config.Default()
	return NewSizer(cfg.Sizing, cfg.Risk.ConfidenceLevel)
}

func TestStatistics(t *testing.T) {
	got := Statistics([]float64{0.02, 0.02, -0.01, 0.02, -0.01})

	assert.InDelta(t, 0.6, got.WinRate, 1e-12)
	assert.InDelta(t, 0.02, got.AvgWin, 1e-12)
	assert.InDelta(t, -0.01, got.AvgLoss, 1e-12)
	assert.True(t, got.ProfitFactor.Defined)
	assert.InDelta(t, 2, got.ProfitFactor.Value, 1e-12)

	noLoss := Statistics([]float64{0.01, 0.02})
	assert.False(t, noLoss.ProfitFactor.Defined)
	assert.Equal(t, dto.ReasonNoLosses, noLoss.ProfitFactor.Reason)
}

func TestKelly(t *testing.T) {
	s := newSizer()
	tests := []struct {
		name    string
		returns []float64
		want    float64
	}{
		{name: "edge", returns: []float64{0.02, 0.02, -0.01, 0.02, -0.01}, want: 0.1},
		{name: "capped", returns: []float64{0.05, 0.05, 0.05, -0.01}, want: 0.15},
		{name: "negative edge clamps to zero", returns: []float64{0.01, -0.02, -0.02, -0.02}, want: 0},
		{name: "no losses", returns: []float64{0.01, 0.02}, want: 0},
		{name: "no wins", returns: []float64{-0.01, -0.02}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Kelly(Statistics(tt.returns)), 1e-12)
		})
	}
}

func TestVolatilityTarget(t *testing.T) {
	s := newSizer()

	assert.Equal(t, 0.02, s.VolatilityTarget([]float64{0.01, 0.01, 0.01}))

	returns := []float64{0.1, -0.1, 0.1, -0.1}
	assert.InDelta(t, 0.01/analytics.SampleStd(returns), s.VolatilityTarget(returns), 1e-12)

	calm := []float64{0.0001, -0.0001, 0.0001, -0.0001}
	assert.Equal(t, 0.15, s.VolatilityTarget(calm))
}

func TestSize(t *testing.T) {
	s := newSizer()
	returns := []float64{0.02, 0.02, -0.01, 0.02, -0.01}

	got := s.Size(Inputs{Returns: returns, MaxDrawdown: -0.5, MonteCarloP5: -0.001})

	assert.InDelta(t, 0.1, got.Kelly, 1e-12)
	assert.Equal(t, 0.02, got.FixedFractional)
	assert.InDelta(t, 0.04, got.RiskAdjusted, 1e-12)
	assert.InDelta(t, 0.15, got.MonteCarloBased, 1e-12)
	blend := (got.Kelly + got.FixedFractional + got.VolatilityTarget) / 3
	assert.InDelta(t, min(blend, 0.10), got.Recommended, 1e-12)
}

func TestSize_NoProjection(t *testing.T) {
	s := newSizer()
	returns := []float64{0.02, -0.01}

	got := s.Size(Inputs{Returns: returns, MaxDrawdown: -0.01, NoProjection: true})
	assert.Equal(t, 0.0, got.MonteCarloBased)

	got = s.Size(Inputs{Returns: returns, MaxDrawdown: -0.01})
	assert.Equal(t, 0.15, got.MonteCarloBased)
}

func TestSize_Bounds(t *testing.T) {
	s := newSizer()
	for seed := int64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		returns := make([]float64, 40)
		for i := range returns {
			returns[i] = rng.NormFloat64()*rng.Float64()*0.05 + (rng.Float64()-0.5)*0.02
		}

		got := s.Size(Inputs{Returns: returns, MaxDrawdown: -rng.Float64(), MonteCarloP5: -rng.Float64()})

		assert.GreaterOrEqual(t, got.Kelly, 0.0)
		assert.LessOrEqual(t, got.Kelly, 0.15)
		assert.GreaterOrEqual(t, got.VolatilityTarget, 0.0)
		assert.LessOrEqual(t, got.VolatilityTarget, 0.15)
		assert.GreaterOrEqual(t, got.Recommended, 0.0)
		assert.LessOrEqual(t, got.Recommended, 0.10)
		assert.LessOrEqual(t, got.RiskAdjusted, 0.15)
		assert.LessOrEqual(t, got.MonteCarloBased, 0.15)
	}
}

func TestVaRConstrained(t *testing.T) {
	tests := []struct {
		name            string
		returns         []float64
		limit           float64
		wantWeight      float64
		wantConstrained bool
	}{
		{
			name:            "positive mean bounded by var",
			returns:         []float64{-0.04, -0.04, 0.05, 0.05, 0.05, 0.05, 0.05, 0.05, 0.05, 0.05},
			limit:           -0.02,
			wantWeight:      0.5,
			wantConstrained: true,
		},
		{
			name:            "positive mean unbounded",
			returns:         []float64{-0.001, 0.01, 0.02, 0.03},
			limit:           -0.02,
			wantWeight:      1,
			wantConstrained: true,
		},
		{
			name:            "negative mean",
			returns:         []float64{-0.05, -0.02, 0.01},
			limit:           -0.02,
			wantWeight:      0,
			wantConstrained: true,
		},
		{
			name:       "positive limit with losses",
			returns:    []float64{-0.05, 0.01, 0.02},
			limit:      0.01,
			wantWeight: 0.1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default().Sizing
			cfg.VaRLimit = tt.limit
			s := NewSizer(cfg, 0.05)

			got := s.VaRConstrained(tt.returns)
			assert.InDelta(t, tt.wantWeight, got.Weight, 1e-9)
			assert.Equal(t, tt.wantConstrained, got.Constrained)
			assert.Equal(t, tt.limit, got.VaRLimit)
		})
	}
}
