// Package allocation computes minimum-variance weights across several
// opportunity return streams.
package allocation

import (
	"math"
	"strconv"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/apperror"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

const (
	opAllocate     = "allocation.Allocate"
	feasibilityTol = 1e-9
	maxPenalty     = 1e10
)

type Allocator struct {
	cfg      config.Allocation
	riskFree float64
}

func NewAllocator(cfg config.Allocation, riskFree float64) *Allocator {
	return &Allocator{cfg: cfg, riskFree: riskFree}
}

// problem is the allocation in solver form. Variance is scaled by scale so
// that the objective and the constraint violations have similar magnitude.
type problem struct {
	cov       *mat.SymDense
	mu        []float64
	target    float64
	maxWeight float64
	scale     float64
}

// Allocate minimises w'Σw subject to sum(w) = 1, 0 <= w_i <= MaxWeight and
// w'μ >= TargetReturn, with Σ the sample covariance and μ the column means of
// the periods x assets matrix.
//
// The constraints are handled by an augmented Lagrangian whose inner
// minimisation is BFGS. The solver output is projected onto the capped
// simplex and, when the projection lost return, mixed with the maximum
// return portfolio until the target is met.
func (a *Allocator) Allocate(req dto.AllocationRequest) (*dto.AllocationResult, error) {
	data, err := matrix(req.Returns)
	if err != nil {
		return nil, err
	}
	_, n := data.Dims()
	if req.MaxWeight <= 0 || req.MaxWeight > 1 {
		return nil, apperror.InvalidInput(opAllocate, "max weight must be in (0, 1], got %v", req.MaxWeight)
	}
	if len(req.Assets) != 0 && len(req.Assets) != n {
		return nil, apperror.InvalidInput(opAllocate, "%d asset names for %d columns", len(req.Assets), n)
	}

	p := &problem{
		cov:       mat.NewSymDense(n, nil),
		mu:        make([]float64, n),
		target:    req.TargetReturn,
		maxWeight: req.MaxWeight,
	}
	stat.CovarianceMatrix(p.cov, data, nil)
	for j := 0; j < n; j++ {
		p.mu[j] = stat.Mean(mat.Col(nil, j, data), nil)
	}
	p.scale = varianceScale(p.cov, n)

	infeasible := &apperror.AllocationInfeasibleError{
		Assets:       n,
		MaxWeight:    req.MaxWeight,
		TargetReturn: req.TargetReturn,
	}

	if float64(n)*req.MaxWeight < 1-feasibilityTol {
		infeasible.Reason = "max weight cannot cover a fully invested portfolio"
		return nil, infeasible
	}
	best := maxReturnPortfolio(p.mu, req.MaxWeight)
	infeasible.MaxAchievableReturn = dot(best, p.mu)
	if infeasible.MaxAchievableReturn < req.TargetReturn-feasibilityTol {
		infeasible.Reason = "target return exceeds the best achievable return"
		return nil, infeasible
	}

	x, iterations, status, err := a.solve(p)
	infeasible.Iterations = iterations
	infeasible.SolverStatus = status
	if err != nil {
		infeasible.Reason = err.Error()
		return nil, infeasible
	}

	w := projectCappedSimplex(x, req.MaxWeight)
	if ret := dot(w, p.mu); ret < req.TargetReturn {
		theta := (req.TargetReturn - ret) / (infeasible.MaxAchievableReturn - ret)
		theta = math.Min(1, math.Max(0, theta))
		for i := range w {
			w[i] = (1-theta)*w[i] + theta*best[i]
		}
	}

	if reason := checkWeights(w, p); reason != "" {
		infeasible.Reason = reason
		return nil, infeasible
	}

	wv := mat.NewVecDense(n, w)
	variance := math.Max(0, mat.Inner(wv, p.cov, wv))
	result := &dto.AllocationResult{
		Assets:         assetNames(req.Assets, n),
		Weights:        w,
		ExpectedReturn: dot(w, p.mu),
		Risk:           math.Sqrt(variance),
		TargetReturn:   req.TargetReturn,
		MaxWeight:      req.MaxWeight,
		Iterations:     iterations,
		Returns:        copyMatrix(req.Returns),
	}
	if result.Risk > 0 {
		result.SharpeRatio = (result.ExpectedReturn - a.riskFree) / result.Risk
	}
	return result, nil
}

// solve runs the augmented Lagrangian outer loop from equal weights.
func (a *Allocator) solve(p *problem) ([]float64, int, string, error) {
	n := len(p.mu)
	x := make([]float64, n)
	for i := range x {
		x[i] = 1 / float64(n)
	}

	// multipliers: budget equality, return inequality, lower and upper bounds
	var lambda, nuReturn float64
	nuLower := make([]float64, n)
	nuUpper := make([]float64, n)
	rho := 10.0
	status := ""
	prevViolation := math.Inf(1)

	iter := 0
	for iter < a.cfg.MaxIterations {
		iter++

		prob := optimize.Problem{
			Func: func(x []float64) float64 {
				return p.lagrangian(x, lambda, nuReturn, nuLower, nuUpper, rho, nil)
			},
			Grad: func(grad, x []float64) {
				p.lagrangian(x, lambda, nuReturn, nuLower, nuUpper, rho, grad)
			},
		}
		res, err := optimize.Minimize(prob, x, nil, &optimize.BFGS{})
		if res == nil {
			return nil, iter, status, err
		}
		status = res.Status.String()
		if !finite(res.X) {
			return nil, iter, status, apperror.InvalidInput(opAllocate, "solver diverged")
		}
		copy(x, res.X)

		budget := sum(x) - 1
		lambda += rho * budget
		nuReturn = math.Max(0, nuReturn+rho*(p.target-dot(x, p.mu)))
		for i := range x {
			nuLower[i] = math.Max(0, nuLower[i]-rho*x[i])
			nuUpper[i] = math.Max(0, nuUpper[i]+rho*(x[i]-p.maxWeight))
		}

		violation := p.violation(x)
		if violation <= a.cfg.Tolerance {
			break
		}
		if violation > 0.25*prevViolation {
			rho = math.Min(rho*10, maxPenalty)
		}
		prevViolation = violation
	}
	return x, iter, status, nil
}

// lagrangian evaluates the augmented Lagrangian at x and, when grad is not
// nil, writes its gradient.
func (p *problem) lagrangian(x []float64, lambda, nuReturn float64, nuLower, nuUpper []float64, rho float64, grad []float64) float64 {
	n := len(x)
	xv := mat.NewVecDense(n, x)
	var sx mat.VecDense
	sx.MulVec(p.cov, xv)

	f := p.scale * mat.Dot(xv, &sx)
	budget := sum(x) - 1
	f += lambda*budget + rho/2*budget*budget

	returnMult := math.Max(0, nuReturn+rho*(p.target-dot(x, p.mu)))
	f += (returnMult*returnMult - nuReturn*nuReturn) / (2 * rho)

	if grad != nil {
		for i := range grad {
			grad[i] = 2*p.scale*sx.AtVec(i) + lambda + rho*budget - returnMult*p.mu[i]
		}
	}

	for i := 0; i < n; i++ {
		lower := math.Max(0, nuLower[i]-rho*x[i])
		upper := math.Max(0, nuUpper[i]+rho*(x[i]-p.maxWeight))
		f += (lower*lower - nuLower[i]*nuLower[i]) / (2 * rho)
		f += (upper*upper - nuUpper[i]*nuUpper[i]) / (2 * rho)
		if grad != nil {
			grad[i] += upper - lower
		}
	}
	return f
}

func (p *problem) violation(x []float64) float64 {
	v := math.Abs(sum(x) - 1)
	v = math.Max(v, p.target-dot(x, p.mu))
	for _, xi := range x {
		v = math.Max(v, -xi)
		v = math.Max(v, xi-p.maxWeight)
	}
	return v
}

func checkWeights(w []float64, p *problem) string {
	if !finite(w) {
		return "weights are not finite"
	}
	if math.Abs(sum(w)-1) > 1e-6 {
		return "weights do not sum to one"
	}
	for _, wi := range w {
		if wi < -feasibilityTol || wi > p.maxWeight+feasibilityTol {
			return "weight outside bounds"
		}
	}
	if dot(w, p.mu) < p.target-feasibilityTol {
		return "target return not reached"
	}
	return ""
}

// matrix validates a periods x assets matrix and converts it for gonum.
func matrix(rows [][]float64) (*mat.Dense, error) {
	if len(rows) < 2 {
		return nil, apperror.InsufficientData(opAllocate, 2, len(rows))
	}
	n := len(rows[0])
	if n == 0 {
		return nil, apperror.InvalidInput(opAllocate, "return matrix has no assets")
	}
	flat := make([]float64, 0, len(rows)*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, apperror.InvalidInput(opAllocate, "row %d has %d columns, want %d", i, len(row), n)
		}
		if !finite(row) {
			return nil, apperror.InvalidInput(opAllocate, "row %d has non-finite returns", i)
		}
		flat = append(flat, row...)
	}
	return mat.NewDense(len(rows), n, flat), nil
}

func varianceScale(cov *mat.SymDense, n int) float64 {
	var trace float64
	for i := 0; i < n; i++ {
		trace += cov.At(i, i)
	}
	if trace <= 0 {
		return 1
	}
	return float64(n) / trace
}

func assetNames(names []string, n int) []string {
	if len(names) == n {
		return append([]string(nil), names...)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = "asset_" + strconv.Itoa(i+1)
	}
	return out
}

func sum(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v
	}
	return s
}

func finite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func copyMatrix(rows [][]float64) [][]float64 {
	if rows == nil {
		return nil
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
