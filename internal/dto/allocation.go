package dto

type AllocationRequest struct {
	// Returns is a periods x assets matrix.
	Returns      [][]float64 `json:"returns" validate:"required,min=2"`
	Assets       []string    `json:"assets"`
	TargetReturn float64     `json:"target_return"`
	MaxWeight    float64     `json:"max_weight" validate:"gt=0,lte=1"`
}

type AllocationResult struct {
	Assets         []string    `json:"assets"`
	Weights        []float64   `json:"weights"`
	ExpectedReturn float64     `json:"expected_return"`
	Risk           float64     `json:"risk"`
	SharpeRatio    float64     `json:"sharpe_ratio"`
	TargetReturn   float64     `json:"target_return"`
	MaxWeight      float64     `json:"max_weight"`
	Iterations     int         `json:"iterations"`
	Returns        [][]float64 `json:"-" yaml:"-"`
}
