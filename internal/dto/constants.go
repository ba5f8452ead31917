package dto

const (
	VenueZebpay     = "zebpay"
	VenueKucoin     = "kucoin"
	VenueBinanceP2P = "binance_p2p"
	VenueP2PExpress = "p2p_express"
	VenueP2PRegular = "p2p_regular"
)

type SweepDimension string

const (
	DimensionProfitThreshold SweepDimension = "min_profit_threshold"
	DimensionPositionSize    SweepDimension = "position_size_pct"
)

type VolatilityRegime string

const (
	RegimeLow     VolatilityRegime = "low"
	RegimeMedium  VolatilityRegime = "medium"
	RegimeHigh    VolatilityRegime = "high"
	RegimeUnknown VolatilityRegime = "unknown"
)

const (
	ReasonNoLosses      = "undefined (no losses)"
	ReasonEmptySeries   = "snapshot series is empty"
	ReasonNoQualifying  = "no snapshot met the profit threshold"
	ReasonAllGridsEmpty = "no grid point produced trades; default configuration kept"
)

const (
	SourceTrades   = "trades"
	SourceReturns  = "returns"
	SourceBacktest = "backtest"
)
