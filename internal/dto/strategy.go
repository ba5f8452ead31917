package dto

import (
	"fmt"

	"golang-p2p-risk/config"
)

// StrategyConfig parameterises one backtest run. The sweep derives a new value
// per grid point; nothing mutates an instance mid-run.
type StrategyConfig struct {
	MinProfitThreshold float64 `json:"min_profit_threshold" yaml:"min_profit_threshold" validate:"gte=0"`
	MaxTradeAmount     float64 `json:"max_trade_amount" yaml:"max_trade_amount" validate:"gt=0,gtefield=MinTradeAmount"`
	MinTradeAmount     float64 `json:"min_trade_amount" yaml:"min_trade_amount" validate:"gt=0"`
	PositionSizePct    float64 `json:"position_size_pct" yaml:"position_size_pct" validate:"gt=0,lte=1"`
	StopLossPct        float64 `json:"stop_loss_pct" yaml:"stop_loss_pct" validate:"gte=0,lt=1"`
	TakeProfitPct      float64 `json:"take_profit_pct" yaml:"take_profit_pct" validate:"gte=0"`
}

func NewStrategyConfig(s config.Strategy) StrategyConfig {
	return StrategyConfig{
		MinProfitThreshold: s.MinProfitThreshold,
		MaxTradeAmount:     s.MaxTradeAmount,
		MinTradeAmount:     s.MinTradeAmount,
		PositionSizePct:    s.PositionSizePct,
		StopLossPct:        s.StopLossPct,
		TakeProfitPct:      s.TakeProfitPct,
	}
}

// WithPreset returns a copy with the regime-specific fields replaced.
func (c StrategyConfig) WithPreset(p config.RegimePreset) StrategyConfig {
	c.MinProfitThreshold = p.MinProfitThreshold
	c.PositionSizePct = p.PositionSizePct
	c.TakeProfitPct = p.TakeProfitPct
	c.StopLossPct = p.StopLossPct
	return c
}

// Key identifies the configuration in cache keys.
func (c StrategyConfig) Key() string {
	return fmt.Sprintf("%g|%g|%g|%g|%g|%g",
		c.MinProfitThreshold, c.MaxTradeAmount, c.MinTradeAmount,
		c.PositionSizePct, c.StopLossPct, c.TakeProfitPct)
}
