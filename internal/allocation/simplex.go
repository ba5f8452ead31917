package allocation

import (
	"math"
	"sort"
)

// projectCappedSimplex returns the Euclidean projection of x onto
// {w : sum(w) = 1, 0 <= w_i <= maxWeight}. The shift tau is found by
// bisection; sum(clamp(x - tau)) decreases monotonically in tau.
func projectCappedSimplex(x []float64, maxWeight float64) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range x {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo -= maxWeight
	w := make([]float64, len(x))

	for i := 0; i < 200; i++ {
		tau := (lo + hi) / 2
		if shiftedSum(x, tau, maxWeight) > 1 {
			lo = tau
		} else {
			hi = tau
		}
	}
	tau := (lo + hi) / 2
	for i, v := range x {
		w[i] = clampWeight(v-tau, maxWeight)
	}
	return w
}

func shiftedSum(x []float64, tau, maxWeight float64) float64 {
	var s float64
	for _, v := range x {
		s += clampWeight(v-tau, maxWeight)
	}
	return s
}

func clampWeight(v, maxWeight float64) float64 {
	return math.Max(0, math.Min(maxWeight, v))
}

// maxReturnPortfolio fills the highest-mean assets up to maxWeight until the
// budget is spent. It is the return-maximising point of the capped simplex.
func maxReturnPortfolio(mu []float64, maxWeight float64) []float64 {
	order := make([]int, len(mu))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return mu[order[a]] > mu[order[b]]
	})

	w := make([]float64, len(mu))
	remaining := 1.0
	for _, i := range order {
		if remaining <= 0 {
			break
		}
		w[i] = math.Min(maxWeight, remaining)
		remaining -= w[i]
	}
	return w
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
