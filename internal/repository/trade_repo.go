package repository

import (
	"context"
	"strings"

	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/apperror"
	"golang-p2p-risk/pkg/logger"
	"golang-p2p-risk/pkg/utils"
)

// TradeRepository reads trade records from a CSV file with the columns
// timestamp, profit and optionally investment and side.
type TradeRepository interface {
	Load(ctx context.Context, path string) ([]dto.TradeRecord, error)
}

type tradeRepository struct {
	log *logger.Logger
}

func NewTradeRepository(log *logger.Logger) TradeRepository {
	return &tradeRepository{log: log}
}

var sides = []string{dto.SideBuy, dto.SideSell, dto.SideRoundTrip}

func (r *tradeRepository) Load(ctx context.Context, path string) ([]dto.TradeRecord, error) {
	t, err := readTable(path, true)
	if err != nil {
		return nil, err
	}

	tsCol := t.column("timestamp", "time", "date")
	profitCol := t.column("profit", "net_profit", "pnl")
	if tsCol < 0 || profitCol < 0 {
		return nil, apperror.InvalidInput("repository.LoadTrades", "%s: timestamp and profit columns are required", path)
	}
	investCol := t.column("investment", "trade_amount")
	sideCol := t.column("side")

	records := make([]dto.TradeRecord, 0, len(t.rows))
	for i := range t.rows {
		ts, err := utils.ParseTimestamp(t.cell(i, tsCol))
		if err != nil {
			return nil, t.invalid(i, "%v", err)
		}
		profit, ok, err := t.float(i, profitCol)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, t.invalid(i, "profit is empty")
		}
		investment, _, err := t.float(i, investCol)
		if err != nil {
			return nil, err
		}

		side := strings.ToLower(t.cell(i, sideCol))
		if side == "" {
			side = dto.SideRoundTrip
		}
		if !utils.ContainsString(sides, side) {
			return nil, t.invalid(i, "unknown side %q", side)
		}

		records = append(records, dto.TradeRecord{
			Timestamp:  ts,
			Profit:     profit,
			Investment: investment,
			Side:       side,
		})
	}

	r.log.DebugContext(ctx, "Loaded trade records",
		logger.StringField("path", path),
		logger.IntField("trades", len(records)),
	)
	return records, nil
}
