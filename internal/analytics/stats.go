// Package analytics holds the pure risk computations over return series.
// Nothing here logs or keeps state; every function returns a fresh value.
package analytics

import (
	"math"
	"sort"

	"golang-p2p-risk/pkg/apperror"

	"gonum.org/v1/gonum/stat"
)

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between closest ranks, the estimator numpy uses by default.
// gonum's stat.Quantile only offers the empirical and Hazen style estimators.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

// Percentiles is Percentile for several levels with a single sort.
func Percentiles(values []float64, ps ...float64) []float64 {
	out := make([]float64, len(ps))
	if len(values) == 0 {
		return out
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	for i, p := range ps {
		out[i] = percentileSorted(sorted, p)
	}
	return out
}

func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	p = math.Max(0, math.Min(100, p))
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}

// PopMeanStd is the mean and population (ddof=0) standard deviation.
func PopMeanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	if len(values) == 1 {
		return values[0], 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return mean, finiteOrZero(std)
}

// SampleStd is the ddof=1 standard deviation, 0 for fewer than two values.
func SampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return finiteOrZero(stat.StdDev(values, nil))
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Skewness is the biased sample skewness m3/m2^1.5. A constant series has
// zero skew.
func Skewness(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m2 := stat.Moment(2, values, nil)
	if m2 <= 0 {
		return 0
	}
	return finiteOrZero(stat.Moment(3, values, nil) / math.Pow(m2, 1.5))
}

// ExcessKurtosis is the biased sample kurtosis m4/m2^2 - 3.
func ExcessKurtosis(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m2 := stat.Moment(2, values, nil)
	if m2 <= 0 {
		return 0
	}
	return finiteOrZero(stat.Moment(4, values, nil)/(m2*m2) - 3)
}

// RollingSampleStd returns the ddof=1 standard deviation of each trailing
// window. Entries before the first full window are NaN, as are windows that
// contain NaN.
func RollingSampleStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window < 2 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		w := values[i-window+1 : i+1]
		if hasNaN(w) {
			continue
		}
		out[i] = stat.StdDev(w, nil)
	}
	return out
}

// ValidateReturns rejects series with non-finite values or returns below -100%.
func ValidateReturns(op string, returns []float64) error {
	for i, r := range returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return apperror.InvalidInput(op, "return %d is not finite", i)
		}
		if r < -1 {
			return apperror.InvalidInput(op, "return %d is %v, below -100%%", i, r)
		}
	}
	return nil
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return finiteOrZero(num / den)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
