package service

import (
	"math"

	"golang-p2p-risk/internal/dto"
)

// recommend turns the report figures into textual advisories.
func recommend(metrics dto.RiskMetrics, sizing dto.PositionSizing) []string {
	recommendations := []string{}

	if metrics.InsufficientData {
		return append(recommendations,
			"Not enough observations for variance based metrics - collect a longer trade history before sizing up")
	}

	if metrics.SharpeRatio < 1.0 {
		recommendations = append(recommendations, "Low Sharpe ratio - consider improving strategy selectivity or reducing costs")
	} else if metrics.SharpeRatio > 2.0 {
		recommendations = append(recommendations, "Excellent Sharpe ratio - strategy shows strong risk-adjusted returns")
	}

	if math.Abs(metrics.Drawdown.MaxDrawdown) > 0.15 {
		recommendations = append(recommendations, "High maximum drawdown (>15%) - implement stricter position sizing")
	}

	if sizing.Recommended < 0.05 {
		recommendations = append(recommendations, "Very conservative position sizing recommended due to high strategy risk")
	} else if sizing.Recommended > 0.10 {
		recommendations = append(recommendations, "Large position sizes detected - ensure adequate risk management")
	}

	if metrics.Skewness < -1 {
		recommendations = append(recommendations, "Negative skew detected - strategy prone to large losses")
	} else if metrics.Skewness > 1 {
		recommendations = append(recommendations, "Positive skew - strategy tends toward large wins")
	}

	if metrics.Volatility > 0.30 {
		recommendations = append(recommendations, "High volatility - consider reducing position sizes or improving timing")
	}

	return recommendations
}
