package dto

import "time"

type VaRMetrics struct {
	Historical      float64 `json:"var_historical"`
	Parametric      float64 `json:"var_parametric"`
	Modified        float64 `json:"var_modified"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// DrawdownStats describes the cumulative-product equity path. Drawdowns are
// non-positive fractions.
type DrawdownStats struct {
	MaxDrawdown float64 `json:"max_drawdown"`
	MaxDuration int     `json:"max_drawdown_duration"`
	AvgDrawdown float64 `json:"avg_drawdown"`
	Frequency   float64 `json:"drawdown_frequency"`
}

type RiskMetrics struct {
	Observations     int           `json:"observations"`
	AnnualReturn     float64       `json:"annual_return"`
	Volatility       float64       `json:"volatility"`
	SharpeRatio      float64       `json:"sharpe_ratio"`
	SortinoRatio     float64       `json:"sortino_ratio"`
	CalmarRatio      float64       `json:"calmar_ratio"`
	VaR              VaRMetrics    `json:"var"`
	CVaR             float64       `json:"cvar"`
	Drawdown         DrawdownStats `json:"drawdown"`
	Skewness         float64       `json:"skewness"`
	Kurtosis         float64       `json:"kurtosis"`
	InsufficientData bool          `json:"insufficient_data"`
}

type RiskAdjustedPerformance struct {
	InformationRatio float64 `json:"information_ratio"`
	OmegaRatio       Ratio   `json:"omega_ratio"`
	TailRatio        float64 `json:"tail_ratio"`
	MartinRatio      float64 `json:"martin_ratio"`
	UlcerIndex       float64 `json:"ulcer_index"`
}

type SizingStatistics struct {
	WinRate      float64 `json:"win_rate"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	ProfitFactor Ratio   `json:"profit_factor"`
}

type VaRConstrainedSize struct {
	Weight      float64 `json:"weight"`
	VaRLimit    float64 `json:"var_limit"`
	Constrained bool    `json:"constrained"`
}

type PositionSizing struct {
	Kelly            float64            `json:"kelly_criterion"`
	FixedFractional  float64            `json:"fixed_fractional"`
	VolatilityTarget float64            `json:"percent_volatility"`
	RiskAdjusted     float64            `json:"risk_adjusted"`
	MonteCarloBased  float64            `json:"monte_carlo_based"`
	Recommended      float64            `json:"recommended"`
	VaRConstrained   VaRConstrainedSize `json:"var_constrained"`
	Statistics       SizingStatistics   `json:"statistics"`
}

type MonteCarloSummary struct {
	Simulations     int         `json:"simulations"`
	Horizon         int         `json:"horizon"`
	Seed            int64       `json:"seed"`
	MeanFinalReturn float64     `json:"mean_final_return"`
	StdFinalReturn  float64     `json:"std_final_return"`
	ProbPositive    float64     `json:"prob_positive"`
	ProbLoss10Pct   float64     `json:"prob_loss_10pct"`
	ProbLoss20Pct   float64     `json:"prob_loss_20pct"`
	Percentile5     float64     `json:"percentile_5"`
	Percentile25    float64     `json:"percentile_25"`
	Percentile75    float64     `json:"percentile_75"`
	Percentile95    float64     `json:"percentile_95"`
	SamplePaths     [][]float64 `json:"simulated_paths,omitempty" yaml:"simulated_paths,omitempty"`
}

type ShockResult struct {
	Description          string  `json:"description"`
	ImmediateLoss        float64 `json:"immediate_loss"`
	PortfolioValue       float64 `json:"portfolio_value"`
	RecoveryEstimateDays int     `json:"recovery_estimate_days"`
	ProbabilityEstimate  float64 `json:"probability_estimate"`
}

type VolatilityResult struct {
	Description   string  `json:"description"`
	Periods       int     `json:"periods"`
	NewVolatility float64 `json:"new_volatility"`
	StressedVaR   float64 `json:"stressed_var"`
	RiskIncrease  float64 `json:"risk_increase"`
}

type LiquidityResult struct {
	Description    string  `json:"description"`
	SpreadIncrease float64 `json:"spread_increase"`
	Periods        int     `json:"periods"`
	Assessment     string  `json:"assessment"`
}

type StressResults struct {
	BaseValue       float64          `json:"base_value"`
	MarketCrash     ShockResult      `json:"market_crash"`
	VolatilitySpike VolatilityResult `json:"volatility_spike"`
	LiquidityCrisis LiquidityResult  `json:"liquidity_crisis"`
	RegulatoryShock ShockResult      `json:"regulatory_shock"`
}

// RiskReport aggregates every risk computation over one return series.
type RiskReport struct {
	ID              string                  `json:"id"`
	GeneratedAt     time.Time               `json:"generated_at"`
	Source          string                  `json:"source"`
	BacktestRunID   string                  `json:"backtest_run_id,omitempty"`
	Observations    int                     `json:"observations"`
	Metrics         RiskMetrics             `json:"risk_metrics"`
	RiskAdjusted    RiskAdjustedPerformance `json:"risk_adjusted_performance"`
	Sizing          PositionSizing          `json:"position_sizing"`
	MonteCarlo      MonteCarloSummary       `json:"monte_carlo"`
	Stress          StressResults           `json:"stress_tests"`
	Recommendations []string                `json:"recommendations"`
}

type RiskReportRequest struct {
	Trades  []TradeRecord `json:"trades,omitempty"`
	Returns []float64     `json:"returns,omitempty"`
}
