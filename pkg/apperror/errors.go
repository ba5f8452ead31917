package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInsufficientData     = errors.New("insufficient data")
	ErrAllocationInfeasible = errors.New("allocation infeasible")
	ErrEmptyResult          = errors.New("empty result")
)

// Error is a classified failure. Kind is one of the Err* sentinels so callers
// can use errors.Is.
type Error struct {
	Kind   error
	Op     string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func InvalidInput(op, format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalidInput, Op: op, Detail: fmt.Sprintf(format, args...)}
}

func InsufficientData(op string, need, got int) error {
	return &Error{
		Kind:   ErrInsufficientData,
		Op:     op,
		Detail: fmt.Sprintf("need at least %d observations, got %d", need, got),
	}
}

// AllocationInfeasibleError reports why no weight vector satisfies the
// allocation constraints, with the solver diagnostics that led there.
type AllocationInfeasibleError struct {
	Reason              string
	Assets              int
	MaxWeight           float64
	TargetReturn        float64
	MaxAchievableReturn float64
	Iterations          int
	SolverStatus        string
}

func (e *AllocationInfeasibleError) Error() string {
	msg := fmt.Sprintf("allocation infeasible: %s (assets=%d max_weight=%.4f target=%.6g max_achievable=%.6g",
		e.Reason, e.Assets, e.MaxWeight, e.TargetReturn, e.MaxAchievableReturn)
	if e.SolverStatus != "" {
		msg += fmt.Sprintf(" iterations=%d solver=%s", e.Iterations, e.SolverStatus)
	}
	return msg + ")"
}

func (e *AllocationInfeasibleError) Is(target error) bool {
	return target == ErrAllocationInfeasible
}

// EmptyResultError marks a backtest or sweep that produced no trades. It is a
// reportable outcome rather than a failure of the computation.
type EmptyResultError struct {
	Op     string
	Reason string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: no trades: %s", e.Op, e.Reason)
}

func (e *EmptyResultError) Is(target error) bool {
	return target == ErrEmptyResult
}
