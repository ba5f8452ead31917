package dto

import "time"

// TradeEconomics is the fee and tax adjusted outcome of a single round trip.
type TradeEconomics struct {
	GrossRevenue float64 `json:"gross_revenue"`
	NetRevenue   float64 `json:"net_revenue"`
	TotalCost    float64 `json:"total_cost"`
	NetProfit    float64 `json:"net_profit"`
	ROI          float64 `json:"roi"`
	IsProfitable bool    `json:"is_profitable"`
}

// Trade is an opportunity accepted by the backtest engine.
type Trade struct {
	Timestamp  time.Time `json:"timestamp"`
	BuyPrice   float64   `json:"buy_price"`
	SellPrice  float64   `json:"sell_price"`
	Quantity   float64   `json:"quantity"`
	Investment float64   `json:"investment"`
	NetProfit  float64   `json:"net_profit"`
	ROI        float64   `json:"roi"`
	Hour       int       `json:"hour"`
}

// Record converts the trade into the generic record risk analytics consume.
func (t Trade) Record() TradeRecord {
	return TradeRecord{
		Timestamp:  t.Timestamp,
		Profit:     t.NetProfit,
		Investment: t.Investment,
		Side:       SideRoundTrip,
	}
}

const (
	SideBuy       = "buy"
	SideSell      = "sell"
	SideRoundTrip = "round_trip"
)

// TradeRecord is the minimal trade shape supplied by external sources.
type TradeRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Profit     float64   `json:"profit"`
	Investment float64   `json:"investment"`
	Side       string    `json:"side"`
}
