package analytics

import (
	"math"
	"time"

	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/apperror"
)

// CheckChronological fails when a timestamp precedes its predecessor. Equal
// timestamps are allowed.
func CheckChronological(op string, timestamps []time.Time) error {
	for i := 1; i < len(timestamps); i++ {
		if timestamps[i].Before(timestamps[i-1]) {
			return apperror.InvalidInput(op, "timestamps are not monotonic at index %d (%s after %s)",
				i, timestamps[i].Format(time.RFC3339), timestamps[i-1].Format(time.RFC3339))
		}
	}
	return nil
}

// EquityCurve is initialCapital followed by the running capital after each
// trade.
func EquityCurve(records []dto.TradeRecord, initialCapital float64) []float64 {
	curve := make([]float64, 0, len(records)+1)
	capital := initialCapital
	curve = append(curve, capital)
	for _, r := range records {
		capital += r.Profit
		curve = append(curve, capital)
	}
	return curve
}

// ReturnsFromEquity converts an equity curve into period-over-period returns.
func ReturnsFromEquity(curve []float64) ([]float64, error) {
	const op = "analytics.ReturnsFromEquity"
	if len(curve) < 2 {
		return nil, nil
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1]
		if prev <= 0 || math.IsNaN(prev) || math.IsInf(prev, 0) {
			return nil, apperror.InvalidInput(op, "equity at index %d is %v; returns need positive equity", i-1, prev)
		}
		returns = append(returns, curve[i]/prev-1)
	}
	return returns, nil
}

// ReturnsFromTrades validates trade ordering and derives the per-trade
// return on the running equity that started at initialCapital.
func ReturnsFromTrades(records []dto.TradeRecord, initialCapital float64) ([]float64, error) {
	const op = "analytics.ReturnsFromTrades"
	if initialCapital <= 0 {
		return nil, apperror.InvalidInput(op, "initial capital must be positive, got %v", initialCapital)
	}

	timestamps := make([]time.Time, len(records))
	for i, r := range records {
		if math.IsNaN(r.Profit) || math.IsInf(r.Profit, 0) {
			return nil, apperror.InvalidInput(op, "trade %d profit is not finite", i)
		}
		timestamps[i] = r.Timestamp
	}
	if err := CheckChronological(op, timestamps); err != nil {
		return nil, err
	}

	return ReturnsFromEquity(EquityCurve(records, initialCapital))
}
