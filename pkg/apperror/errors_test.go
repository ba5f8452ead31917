package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
		msg  string
	}{
		{
			name: "invalid input",
			err:  InvalidInput("calculator.ComputeTradeEconomics", "buy price must be positive, got %v", -1.0),
			kind: ErrInvalidInput,
			msg:  "calculator.ComputeTradeEconomics: invalid input: buy price must be positive, got -1",
		},
		{
			name: "insufficient data",
			err:  InsufficientData("analytics.ComputeRiskMetrics", 2, 1),
			kind: ErrInsufficientData,
			msg:  "analytics.ComputeRiskMetrics: insufficient data: need at least 2 observations, got 1",
		},
		{
			name: "empty result",
			err:  &EmptyResultError{Op: "backtest.Run", Reason: "snapshot series is empty"},
			kind: ErrEmptyResult,
			msg:  "backtest.Run: no trades: snapshot series is empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.kind))
			assert.Equal(t, tt.msg, tt.err.Error())

			wrapped := fmt.Errorf("failed to run: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.kind))
		})
	}
}

func TestAllocationInfeasibleError(t *testing.T) {
	err := fmt.Errorf("failed to allocate: %w", &AllocationInfeasibleError{
		Reason:       "weight cap too small for asset count",
		Assets:       2,
		MaxWeight:    0.4,
		TargetReturn: 0.01,
	})

	assert.True(t, errors.Is(err, ErrAllocationInfeasible))
	assert.False(t, errors.Is(err, ErrInvalidInput))

	var infeasible *AllocationInfeasibleError
	require.True(t, errors.As(err, &infeasible))
	assert.Equal(t, 2, infeasible.Assets)
	assert.Contains(t, infeasible.Error(), "weight cap too small")
	assert.NotContains(t, infeasible.Error(), "solver=")
}
