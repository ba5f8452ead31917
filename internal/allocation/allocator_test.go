package allocation

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAllocator() *Allocator {
	cfg := config.Default()
	return NewAllocator(cfg.Allocation, cfg.Risk.RiskFreeRate)
}

// twoAssets has zero sample covariance between the columns, variances 4/3
// and 16/3, and column means meanA and meanB.
func twoAssets(meanA, meanB float64) [][]float64 {
	a := []float64{1, -1, 1, -1}
	b := []float64{2, 2, -2, -2}
	rows := make([][]float64, len(a))
	for i := range a {
		rows[i] = []float64{a[i] + meanA, b[i] + meanB}
	}
	return rows
}

func randomMatrix(seed int64, periods, assets int) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	drift := make([]float64, assets)
	vol := make([]float64, assets)
	for j := range drift {
		drift[j] = rng.Float64() * 0.01
		vol[j] = 0.005 + rng.Float64()*0.03
	}
	rows := make([][]float64, periods)
	common := 0.0
	for i := range rows {
		common = rng.NormFloat64() * 0.01
		rows[i] = make([]float64, assets)
		for j := range rows[i] {
			rows[i][j] = drift[j] + vol[j]*rng.NormFloat64() + common*float64(j%2)
		}
	}
	return rows
}

func TestAllocate_MinimumVariance(t *testing.T) {
	tests := []struct {
		name      string
		returns   [][]float64
		target    float64
		maxWeight float64
		want      []float64
	}{
		{name: "unconstrained optimum", returns: twoAssets(0, 0), target: -1, maxWeight: 1, want: []float64{0.8, 0.2}},
		{name: "weight cap binds", returns: twoAssets(0, 0), target: -1, maxWeight: 0.6, want: []float64{0.6, 0.4}},
		{name: "target return binds", returns: twoAssets(0.1, 0.5), target: 0.3, maxWeight: 1, want: []float64{0.5, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newAllocator().Allocate(dto.AllocationRequest{
				Returns:      tt.returns,
				Assets:       []string{"express", "regular"},
				TargetReturn: tt.target,
				MaxWeight:    tt.maxWeight,
			})
			require.NoError(t, err)

			require.Len(t, got.Weights, 2)
			assert.InDelta(t, tt.want[0], got.Weights[0], 1e-4)
			assert.InDelta(t, tt.want[1], got.Weights[1], 1e-4)
			assert.InDelta(t, 1, got.Weights[0]+got.Weights[1], 1e-6)
			assert.GreaterOrEqual(t, got.ExpectedReturn, tt.target-1e-9)
			assert.Equal(t, []string{"express", "regular"}, got.Assets)

			variance := tt.want[0]*tt.want[0]*4.0/3.0 + tt.want[1]*tt.want[1]*16.0/3.0
			assert.InDelta(t, math.Sqrt(variance), got.Risk, 1e-3)
		})
	}
}

func TestAllocate_Properties(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		returns := randomMatrix(seed, 120, 5)
		alloc := newAllocator()

		mu := make([]float64, 5)
		for _, row := range returns {
			for j, v := range row {
				mu[j] += v / float64(len(returns))
			}
		}
		best := dot(maxReturnPortfolio(mu, 0.4), mu)
		target := (best + sum(mu)/5) / 2

		got, err := alloc.Allocate(dto.AllocationRequest{Returns: returns, TargetReturn: target, MaxWeight: 0.4})
		require.NoError(t, err, "seed %d", seed)

		assert.InDelta(t, 1, sum(got.Weights), 1e-6)
		for _, w := range got.Weights {
			assert.GreaterOrEqual(t, w, 0.0)
			assert.LessOrEqual(t, w, 0.4+1e-9)
		}
		assert.GreaterOrEqual(t, got.ExpectedReturn, target-1e-9)
		assert.Len(t, got.Assets, 5)
		assert.Equal(t, "asset_1", got.Assets[0])
		if got.Risk > 0 {
			assert.InDelta(t, (got.ExpectedReturn-0.06)/got.Risk, got.SharpeRatio, 1e-12)
		}
	}
}

func TestAllocate_NotWorseThanEqualWeights(t *testing.T) {
	returns := randomMatrix(21, 200, 4)
	got, err := newAllocator().Allocate(dto.AllocationRequest{Returns: returns, TargetReturn: -1, MaxWeight: 0.4})
	require.NoError(t, err)

	equal := []float64{0.25, 0.25, 0.25, 0.25}
	var sumP, sumSq float64
	portfolio := make([]float64, len(returns))
	for i, row := range returns {
		portfolio[i] = dot(equal, row)
		sumP += portfolio[i]
	}
	mean := sumP / float64(len(returns))
	for _, v := range portfolio {
		sumSq += (v - mean) * (v - mean)
	}
	equalRisk := math.Sqrt(sumSq / float64(len(returns)-1))

	assert.LessOrEqual(t, got.Risk, equalRisk*(1+1e-6))
}

func TestAllocate_ResultOwnsReturns(t *testing.T) {
	rows := twoAssets(0, 0)
	got, err := newAllocator().Allocate(dto.AllocationRequest{Returns: rows, TargetReturn: -1, MaxWeight: 1})
	require.NoError(t, err)
	require.Equal(t, rows, got.Returns)

	want := rows[0][0]
	rows[0][0] = 42
	assert.Equal(t, want, got.Returns[0][0])

	got.Returns[1][1] = -42
	assert.NotEqual(t, -42.0, rows[1][1])
}

func TestAllocate_Infeasible(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.AllocationRequest
		wantMaxOK bool
	}{
		{
			name: "cap too small",
			req:  dto.AllocationRequest{Returns: twoAssets(0.1, 0.2), TargetReturn: 0, MaxWeight: 0.4},
		},
		{
			name:      "target above best achievable",
			req:       dto.AllocationRequest{Returns: twoAssets(0.1, 0.2), TargetReturn: 0.5, MaxWeight: 0.6},
			wantMaxOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newAllocator().Allocate(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrAllocationInfeasible))

			var infeasible *apperror.AllocationInfeasibleError
			require.True(t, errors.As(err, &infeasible))
			assert.NotEmpty(t, infeasible.Reason)
			assert.Equal(t, 2, infeasible.Assets)
			if tt.wantMaxOK {
				assert.InDelta(t, 0.6*0.2+0.4*0.1, infeasible.MaxAchievableReturn, 1e-12)
			}
		})
	}
}

func TestAllocate_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.AllocationRequest
		wantKind error
	}{
		{name: "single period", req: dto.AllocationRequest{Returns: [][]float64{{0.1, 0.2}}, MaxWeight: 0.4}, wantKind: apperror.ErrInsufficientData},
		{name: "ragged", req: dto.AllocationRequest{Returns: [][]float64{{0.1, 0.2}, {0.1}}, MaxWeight: 0.4}, wantKind: apperror.ErrInvalidInput},
		{name: "nan", req: dto.AllocationRequest{Returns: [][]float64{{0.1, math.NaN()}, {0.1, 0.2}}, MaxWeight: 0.4}, wantKind: apperror.ErrInvalidInput},
		{name: "bad cap", req: dto.AllocationRequest{Returns: twoAssets(0, 0), MaxWeight: 0}, wantKind: apperror.ErrInvalidInput},
		{name: "name count", req: dto.AllocationRequest{Returns: twoAssets(0, 0), Assets: []string{"a"}, MaxWeight: 1}, wantKind: apperror.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newAllocator().Allocate(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantKind))
		})
	}
}

func TestProjectCappedSimplex(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		cap  float64
		want []float64
	}{
		{name: "already feasible", x: []float64{0.3, 0.3, 0.4}, cap: 0.4, want: []float64{0.3, 0.3, 0.4}},
		{name: "shift down", x: []float64{0.5, 0.5, 0.5}, cap: 0.4, want: []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}},
		{name: "cap and zero", x: []float64{2, 0.3, -1}, cap: 0.6, want: []float64{0.6, 0.4, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := projectCappedSimplex(tt.x, tt.cap)
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}
