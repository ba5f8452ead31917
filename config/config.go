package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger     `mapstructure:"logger" yaml:"logger"`
	Cache      Cache      `mapstructure:"cache" yaml:"cache"`
	Fees       Fees       `mapstructure:"fees" yaml:"fees"`
	Backtest   Backtest   `mapstructure:"backtest" yaml:"backtest"`
	Sweep      Sweep      `mapstructure:"sweep" yaml:"sweep"`
	Risk       Risk       `mapstructure:"risk" yaml:"risk"`
	Sizing     Sizing     `mapstructure:"sizing" yaml:"sizing"`
	MonteCarlo MonteCarlo `mapstructure:"monte_carlo" yaml:"monte_carlo"`
	Stress     Stress     `mapstructure:"stress" yaml:"stress"`
	Allocation Allocation `mapstructure:"allocation" yaml:"allocation"`
}

type Logger struct {
	Level    string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Encoding string `mapstructure:"encoding" yaml:"encoding" validate:"oneof=console json"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration" yaml:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
}

// FeeSchedule is the cost profile of a single venue.
type FeeSchedule struct {
	TradingFee    float64 `mapstructure:"trading_fee" yaml:"trading_fee" validate:"gte=0,lt=1"`
	WithdrawalFee float64 `mapstructure:"withdrawal_fee" yaml:"withdrawal_fee" validate:"gte=0"`
}

type Fees struct {
	TaxRate float64                `mapstructure:"tax_rate" yaml:"tax_rate" validate:"gte=0,lt=1"`
	Venues  map[string]FeeSchedule `mapstructure:"venues" yaml:"venues" validate:"required,dive"`
}

// Venue returns the fee schedule of a venue. Unknown venues are charged nothing.
func (f Fees) Venue(name string) FeeSchedule {
	return f.Venues[strings.ToLower(name)]
}

type Strategy struct {
	MinProfitThreshold float64 `mapstructure:"min_profit_threshold" yaml:"min_profit_threshold" validate:"gte=0"`
	MaxTradeAmount     float64 `mapstructure:"max_trade_amount" yaml:"max_trade_amount" validate:"gt=0,gtefield=MinTradeAmount"`
	MinTradeAmount     float64 `mapstructure:"min_trade_amount" yaml:"min_trade_amount" validate:"gt=0"`
	PositionSizePct    float64 `mapstructure:"position_size_pct" yaml:"position_size_pct" validate:"gt=0,lte=1"`
	StopLossPct        float64 `mapstructure:"stop_loss_pct" yaml:"stop_loss_pct" validate:"gte=0,lt=1"`
	TakeProfitPct      float64 `mapstructure:"take_profit_pct" yaml:"take_profit_pct" validate:"gte=0"`
}

type Backtest struct {
	InitialCapital float64  `mapstructure:"initial_capital" yaml:"initial_capital" validate:"gt=0"`
	Opportunity    string   `mapstructure:"opportunity" yaml:"opportunity" validate:"required"`
	Strategy       Strategy `mapstructure:"strategy" yaml:"strategy"`
}

// Grid is a half-open range [Start, Stop) walked in Step increments.
type Grid struct {
	Start float64 `mapstructure:"start" yaml:"start"`
	Stop  float64 `mapstructure:"stop" yaml:"stop" validate:"gtfield=Start"`
	Step  float64 `mapstructure:"step" yaml:"step" validate:"gt=0"`
}

// Values expands the grid. Values are computed from the index so that
// floating point drift never adds or drops a point.
func (g Grid) Values() []float64 {
	if g.Step <= 0 || g.Stop <= g.Start {
		return nil
	}
	n := int((g.Stop-g.Start)/g.Step - 1e-9)
	if g.Start+float64(n)*g.Step < g.Stop-1e-12 {
		n++
	}
	values := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		values = append(values, g.Start+float64(i)*g.Step)
	}
	return values
}

type RegimePreset struct {
	MinProfitThreshold float64 `mapstructure:"min_profit_threshold" yaml:"min_profit_threshold" validate:"gte=0"`
	PositionSizePct    float64 `mapstructure:"position_size_pct" yaml:"position_size_pct" validate:"gt=0,lte=1"`
	TakeProfitPct      float64 `mapstructure:"take_profit_pct" yaml:"take_profit_pct" validate:"gte=0"`
	StopLossPct        float64 `mapstructure:"stop_loss_pct" yaml:"stop_loss_pct" validate:"gte=0,lt=1"`
}

type Regime struct {
	Window       int          `mapstructure:"window" yaml:"window" validate:"gte=2"`
	LowQuantile  float64      `mapstructure:"low_quantile" yaml:"low_quantile" validate:"gt=0,lt=1"`
	HighQuantile float64      `mapstructure:"high_quantile" yaml:"high_quantile" validate:"gt=0,lt=1,gtfield=LowQuantile"`
	Low          RegimePreset `mapstructure:"low" yaml:"low"`
	Medium       RegimePreset `mapstructure:"medium" yaml:"medium"`
	High         RegimePreset `mapstructure:"high" yaml:"high"`
}

type Sweep struct {
	MaxConcurrency int           `mapstructure:"max_concurrency" yaml:"max_concurrency" validate:"gte=1"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	Threshold      Grid          `mapstructure:"threshold" yaml:"threshold"`
	PositionSize   Grid          `mapstructure:"position_size" yaml:"position_size"`
	Regime         Regime        `mapstructure:"regime" yaml:"regime"`
}

type Risk struct {
	RiskFreeRate    float64 `mapstructure:"risk_free_rate" yaml:"risk_free_rate"`
	TradingDays     int     `mapstructure:"trading_days" yaml:"trading_days" validate:"gt=0"`
	ConfidenceLevel float64 `mapstructure:"confidence_level" yaml:"confidence_level" validate:"gt=0,lt=1"`
}

type Sizing struct {
	KellyMultiplier  float64 `mapstructure:"kelly_multiplier" yaml:"kelly_multiplier" validate:"gt=0,lte=1"`
	KellyCap         float64 `mapstructure:"kelly_cap" yaml:"kelly_cap" validate:"gt=0,lte=1"`
	FixedFraction    float64 `mapstructure:"fixed_fraction" yaml:"fixed_fraction" validate:"gt=0,lte=1"`
	TargetVolatility float64 `mapstructure:"target_volatility" yaml:"target_volatility" validate:"gt=0"`
	VolatilityCap    float64 `mapstructure:"volatility_cap" yaml:"volatility_cap" validate:"gt=0,lte=1"`
	RiskAdjustedCap  float64 `mapstructure:"risk_adjusted_cap" yaml:"risk_adjusted_cap" validate:"gt=0,lte=1"`
	MonteCarloCap    float64 `mapstructure:"monte_carlo_cap" yaml:"monte_carlo_cap" validate:"gt=0,lte=1"`
	RecommendedCap   float64 `mapstructure:"recommended_cap" yaml:"recommended_cap" validate:"gt=0,lte=1"`
	DrawdownFloor    float64 `mapstructure:"drawdown_floor" yaml:"drawdown_floor" validate:"gt=0"`
	VaRLimit         float64 `mapstructure:"var_limit" yaml:"var_limit"`
	VaRFallback      float64 `mapstructure:"var_fallback" yaml:"var_fallback" validate:"gte=0,lte=1"`
}

type MonteCarlo struct {
	Simulations    int   `mapstructure:"simulations" yaml:"simulations" validate:"gt=0"`
	Horizon        int   `mapstructure:"horizon" yaml:"horizon" validate:"gt=0"`
	Seed           int64 `mapstructure:"seed" yaml:"seed"`
	SamplePaths    int   `mapstructure:"sample_paths" yaml:"sample_paths" validate:"gte=0"`
	MaxConcurrency int   `mapstructure:"max_concurrency" yaml:"max_concurrency" validate:"gte=1"`
}

type ShockScenario struct {
	Description     string  `mapstructure:"description" yaml:"description"`
	Shock           float64 `mapstructure:"shock" yaml:"shock" validate:"gte=-1,lte=0"`
	RecoveryPeriods int     `mapstructure:"recovery_periods" yaml:"recovery_periods" validate:"gte=0"`
	Probability     float64 `mapstructure:"probability" yaml:"probability" validate:"gte=0,lte=1"`
}

type VolatilityScenario struct {
	Description string  `mapstructure:"description" yaml:"description"`
	Multiplier  float64 `mapstructure:"multiplier" yaml:"multiplier" validate:"gt=0"`
	Periods     int     `mapstructure:"periods" yaml:"periods" validate:"gte=0"`
}

type LiquidityScenario struct {
	Description    string  `mapstructure:"description" yaml:"description"`
	SpreadIncrease float64 `mapstructure:"spread_increase" yaml:"spread_increase" validate:"gte=0"`
	Periods        int     `mapstructure:"periods" yaml:"periods" validate:"gte=0"`
}

type Stress struct {
	BaseValue       float64            `mapstructure:"base_value" yaml:"base_value" validate:"gt=0"`
	MarketCrash     ShockScenario      `mapstructure:"market_crash" yaml:"market_crash"`
	VolatilitySpike VolatilityScenario `mapstructure:"volatility_spike" yaml:"volatility_spike"`
	LiquidityCrisis LiquidityScenario  `mapstructure:"liquidity_crisis" yaml:"liquidity_crisis"`
	RegulatoryShock ShockScenario      `mapstructure:"regulatory_shock" yaml:"regulatory_shock"`
}

type Allocation struct {
	MaxWeight     float64 `mapstructure:"max_weight" yaml:"max_weight" validate:"gt=0,lte=1"`
	TargetReturn  float64 `mapstructure:"target_return" yaml:"target_return"`
	MaxIterations int     `mapstructure:"max_iterations" yaml:"max_iterations" validate:"gt=0"`
	Tolerance     float64 `mapstructure:"tolerance" yaml:"tolerance" validate:"gt=0"`
}

// Load reads config.yaml from the working directory.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads configuration from path (or config.yaml in the working
// directory when path is empty), applies environment overrides and validates
// the result. A missing file is not an error: defaults apply.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "No .env file loaded:", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		fmt.Fprintln(os.Stderr, "No config file loaded:", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(goValidator.New()); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every section against its validate tags.
func (c *Config) Validate(validate *goValidator.Validate) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: defaults do not unmarshal: %v", err))
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")

	v.SetDefault("cache.default_expiration", 10*time.Minute)
	v.SetDefault("cache.cleanup_interval", 20*time.Minute)

	v.SetDefault("fees.tax_rate", 0.01)
	v.SetDefault("fees.venues", map[string]interface{}{
		"zebpay":      map[string]interface{}{"trading_fee": 0.0025, "withdrawal_fee": 8.0},
		"kucoin":      map[string]interface{}{"trading_fee": 0.001, "withdrawal_fee": 1.5},
		"binance_p2p": map[string]interface{}{"trading_fee": 0.0, "withdrawal_fee": 0.0},
	})

	v.SetDefault("backtest.initial_capital", 100000.0)
	v.SetDefault("backtest.opportunity", "express")
	v.SetDefault("backtest.strategy.min_profit_threshold", 100.0)
	v.SetDefault("backtest.strategy.max_trade_amount", 10000.0)
	v.SetDefault("backtest.strategy.min_trade_amount", 1000.0)
	v.SetDefault("backtest.strategy.position_size_pct", 0.10)
	v.SetDefault("backtest.strategy.stop_loss_pct", 0.02)
	v.SetDefault("backtest.strategy.take_profit_pct", 0.03)

	v.SetDefault("sweep.max_concurrency", 4)
	v.SetDefault("sweep.cache_ttl", 10*time.Minute)
	v.SetDefault("sweep.threshold.start", 50.0)
	v.SetDefault("sweep.threshold.stop", 500.0)
	v.SetDefault("sweep.threshold.step", 25.0)
	v.SetDefault("sweep.position_size.start", 0.05)
	v.SetDefault("sweep.position_size.stop", 0.30)
	v.SetDefault("sweep.position_size.step", 0.025)
	v.SetDefault("sweep.regime.window", 24)
	v.SetDefault("sweep.regime.low_quantile", 0.33)
	v.SetDefault("sweep.regime.high_quantile", 0.67)
	v.SetDefault("sweep.regime.low.min_profit_threshold", 75.0)
	v.SetDefault("sweep.regime.low.position_size_pct", 0.15)
	v.SetDefault("sweep.regime.low.take_profit_pct", 0.025)
	v.SetDefault("sweep.regime.low.stop_loss_pct", 0.015)
	v.SetDefault("sweep.regime.medium.min_profit_threshold", 100.0)
	v.SetDefault("sweep.regime.medium.position_size_pct", 0.10)
	v.SetDefault("sweep.regime.medium.take_profit_pct", 0.03)
	v.SetDefault("sweep.regime.medium.stop_loss_pct", 0.02)
	v.SetDefault("sweep.regime.high.min_profit_threshold", 150.0)
	v.SetDefault("sweep.regime.high.position_size_pct", 0.08)
	v.SetDefault("sweep.regime.high.take_profit_pct", 0.04)
	v.SetDefault("sweep.regime.high.stop_loss_pct", 0.025)

	v.SetDefault("risk.risk_free_rate", 0.06)
	v.SetDefault("risk.trading_days", 252)
	v.SetDefault("risk.confidence_level", 0.05)

	v.SetDefault("sizing.kelly_multiplier", 0.25)
	v.SetDefault("sizing.kelly_cap", 0.15)
	v.SetDefault("sizing.fixed_fraction", 0.02)
	v.SetDefault("sizing.target_volatility", 0.01)
	v.SetDefault("sizing.volatility_cap", 0.15)
	v.SetDefault("sizing.risk_adjusted_cap", 0.15)
	v.SetDefault("sizing.monte_carlo_cap", 0.15)
	v.SetDefault("sizing.recommended_cap", 0.10)
	v.SetDefault("sizing.drawdown_floor", 0.01)
	v.SetDefault("sizing.var_limit", -0.02)
	v.SetDefault("sizing.var_fallback", 0.1)

	v.SetDefault("monte_carlo.simulations", 10000)
	v.SetDefault("monte_carlo.horizon", 252)
	v.SetDefault("monte_carlo.seed", 42)
	v.SetDefault("monte_carlo.sample_paths", 100)
	v.SetDefault("monte_carlo.max_concurrency", 8)

	v.SetDefault("stress.base_value", 100000.0)
	v.SetDefault("stress.market_crash.description", "Market crash (30% drop)")
	v.SetDefault("stress.market_crash.shock", -0.30)
	v.SetDefault("stress.market_crash.recovery_periods", 30)
	v.SetDefault("stress.market_crash.probability", 0.05)
	v.SetDefault("stress.volatility_spike.description", "Volatility doubles for 2 weeks")
	v.SetDefault("stress.volatility_spike.multiplier", 2.0)
	v.SetDefault("stress.volatility_spike.periods", 14)
	v.SetDefault("stress.liquidity_crisis.description", "Liquidity dries up (wider spreads)")
	v.SetDefault("stress.liquidity_crisis.spread_increase", 0.005)
	v.SetDefault("stress.liquidity_crisis.periods", 7)
	v.SetDefault("stress.regulatory_shock.description", "Sudden regulatory change")
	v.SetDefault("stress.regulatory_shock.shock", -0.15)
	v.SetDefault("stress.regulatory_shock.recovery_periods", 1)
	v.SetDefault("stress.regulatory_shock.probability", 0.05)

	v.SetDefault("allocation.max_weight", 0.4)
	v.SetDefault("allocation.target_return", 0.1)
	v.SetDefault("allocation.max_iterations", 50)
	v.SetDefault("allocation.tolerance", 1e-9)
}
