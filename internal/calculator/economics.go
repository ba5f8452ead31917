package calculator

import (
	"math"

	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/apperror"
)

const opComputeTradeEconomics = "calculator.ComputeTradeEconomics"

// ComputeTradeEconomics prices a buy-then-sell round trip of quantity units.
// The withdrawal fee is a fixed number of units, valued at the buy price.
//
//	totalCost = buy*qty*(1+tradingFee) + withdrawalFee*buy
//	netRevenue = sell*qty*(1-taxRate)
//	roi = netProfit/totalCost*100
func ComputeTradeEconomics(buyPrice, sellPrice, quantity float64, fees config.FeeSchedule, taxRate float64) (dto.TradeEconomics, error) {
	if !positive(buyPrice) {
		return dto.TradeEconomics{}, apperror.InvalidInput(opComputeTradeEconomics, "buy price must be positive, got %v", buyPrice)
	}
	if !positive(sellPrice) {
		return dto.TradeEconomics{}, apperror.InvalidInput(opComputeTradeEconomics, "sell price must be positive, got %v", sellPrice)
	}
	if !positive(quantity) {
		return dto.TradeEconomics{}, apperror.InvalidInput(opComputeTradeEconomics, "quantity must be positive, got %v", quantity)
	}

	investment := buyPrice * quantity
	totalCost := investment*(1+fees.TradingFee) + fees.WithdrawalFee*buyPrice

	grossRevenue := sellPrice * quantity
	netRevenue := grossRevenue - grossRevenue*taxRate

	netProfit := netRevenue - totalCost

	return dto.TradeEconomics{
		GrossRevenue: grossRevenue,
		NetRevenue:   netRevenue,
		TotalCost:    totalCost,
		NetProfit:    netProfit,
		ROI:          netProfit / totalCost * 100,
		IsProfitable: netProfit > 0,
	}, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
