// Package montecarlo projects a return series forward with normal draws.
package montecarlo

import (
	"context"
	"math/rand/v2"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/analytics"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/apperror"

	"golang.org/x/sync/errgroup"
)

const (
	opProject     = "montecarlo.Project"
	loss10Percent = -0.10
	loss20Percent = -0.20
)

// Projector simulates compounded paths in parallel. Every path owns a
// generator seeded with Seed+pathIndex, so results do not depend on how
// paths are spread over workers.
type Projector struct {
	cfg config.MonteCarlo
}

func NewProjector(cfg config.MonteCarlo) *Projector {
	return &Projector{cfg: cfg}
}

// Project draws Simulations paths of Horizon i.i.d. normal returns with the
// population mean and standard deviation of returns and summarises the final
// cumulative returns.
func (p *Projector) Project(ctx context.Context, returns []float64) (dto.MonteCarloSummary, error) {
	summary := dto.MonteCarloSummary{
		Simulations: p.cfg.Simulations,
		Horizon:     p.cfg.Horizon,
		Seed:        p.cfg.Seed,
	}
	if p.cfg.Simulations <= 0 || p.cfg.Horizon <= 0 {
		return summary, apperror.InvalidInput(opProject, "simulations and horizon must be positive, got %d and %d", p.cfg.Simulations, p.cfg.Horizon)
	}
	if err := analytics.ValidateReturns(opProject, returns); err != nil {
		return summary, err
	}
	if len(returns) < 2 {
		return summary, apperror.InsufficientData(opProject, 2, len(returns))
	}

	mean, std := analytics.PopMeanStd(returns)
	finals := make([]float64, p.cfg.Simulations)
	sampled := min(p.cfg.SamplePaths, p.cfg.Simulations)
	paths := make([][]float64, sampled)

	workers := max(p.cfg.MaxConcurrency, 1)
	chunk := (p.cfg.Simulations + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < p.cfg.Simulations; lo += chunk {
		hi := min(lo+chunk, p.cfg.Simulations)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				var path []float64
				if i < sampled {
					path = make([]float64, p.cfg.Horizon)
					paths[i] = path
				}
				finals[i] = p.simulate(i, mean, std, path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	summary.MeanFinalReturn, summary.StdFinalReturn = analytics.PopMeanStd(finals)
	var positive, loss10, loss20 int
	for _, f := range finals {
		if f > 0 {
			positive++
		}
		if f < loss10Percent {
			loss10++
		}
		if f < loss20Percent {
			loss20++
		}
	}
	n := float64(len(finals))
	summary.ProbPositive = float64(positive) / n
	summary.ProbLoss10Pct = float64(loss10) / n
	summary.ProbLoss20Pct = float64(loss20) / n

	pct := analytics.Percentiles(finals, 5, 25, 75, 95)
	summary.Percentile5 = pct[0]
	summary.Percentile25 = pct[1]
	summary.Percentile75 = pct[2]
	summary.Percentile95 = pct[3]
	if sampled > 0 {
		summary.SamplePaths = paths
	}

	return summary, nil
}

// simulate compounds one path and returns its final cumulative return. When
// path is non-nil it receives the cumulative return after every period.
func (p *Projector) simulate(index int, mean, std float64, path []float64) float64 {
	rng := rand.New(rand.NewPCG(uint64(p.cfg.Seed)+uint64(index), 0))
	equity := 1.0
	for h := 0; h < p.cfg.Horizon; h++ {
		equity *= 1 + mean + std*rng.NormFloat64()
		if path != nil {
			path[h] = equity - 1
		}
	}
	return equity - 1
}
