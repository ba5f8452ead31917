package analytics

import (
	"golang-p2p-risk/internal/dto"

	"gonum.org/v1/gonum/stat/distuv"
)

// ValueAtRisk computes historical, parametric and Cornish-Fisher VaR at the
// given tail probability (0.05 for 95% VaR). Values are returns, so losses are
// negative.
func ValueAtRisk(returns []float64, confidence float64) dto.VaRMetrics {
	out := dto.VaRMetrics{ConfidenceLevel: confidence}
	if len(returns) == 0 {
		return out
	}

	out.Historical = Percentile(returns, confidence*100)

	mean, std := PopMeanStd(returns)
	out.Parametric = mean
	if std > 0 {
		out.Parametric = distuv.Normal{Mu: mean, Sigma: std}.Quantile(confidence)
	}

	skew := Skewness(returns)
	kurt := ExcessKurtosis(returns)
	z := distuv.UnitNormal.Quantile(confidence)
	modifiedZ := z +
		(z*z-1)*skew/6 +
		(z*z*z-3*z)*kurt/24 -
		(2*z*z*z-5*z)*skew*skew/36
	out.Modified = finiteOrZero(mean + modifiedZ*std)

	return out
}

// ConditionalVaR is the mean of all observations at or below historical VaR.
func ConditionalVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	threshold := Percentile(returns, confidence*100)

	var sum float64
	var n int
	for _, r := range returns {
		if r <= threshold {
			sum += r
			n++
		}
	}
	if n == 0 {
		return threshold
	}
	return sum / float64(n)
}
