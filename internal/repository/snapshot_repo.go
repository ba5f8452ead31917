package repository

import (
	"context"

	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/apperror"
	"golang-p2p-risk/pkg/logger"
	"golang-p2p-risk/pkg/utils"
)

// SnapshotRepository reads market snapshots from a CSV file whose header is
// timestamp, one column per venue price and an optional volume column.
type SnapshotRepository interface {
	Load(ctx context.Context, path string) ([]dto.MarketSnapshot, error)
}

type snapshotRepository struct {
	log *logger.Logger
}

func NewSnapshotRepository(log *logger.Logger) SnapshotRepository {
	return &snapshotRepository{log: log}
}

// Load keeps the file order; ordering is checked by the backtest engine. A
// blank price cell leaves that venue out of the snapshot.
func (r *snapshotRepository) Load(ctx context.Context, path string) ([]dto.MarketSnapshot, error) {
	t, err := readTable(path, true)
	if err != nil {
		return nil, err
	}

	tsCol := t.column("timestamp", "time", "date")
	if tsCol < 0 {
		return nil, apperror.InvalidInput("repository.LoadSnapshots", "%s: no timestamp column", path)
	}
	volCol := t.column("volume")

	var venues []int
	for i := range t.header {
		if i != tsCol && i != volCol {
			venues = append(venues, i)
		}
	}
	if len(venues) == 0 {
		return nil, apperror.InvalidInput("repository.LoadSnapshots", "%s: no venue price columns", path)
	}

	snapshots := make([]dto.MarketSnapshot, 0, len(t.rows))
	for i := range t.rows {
		ts, err := utils.ParseTimestamp(t.cell(i, tsCol))
		if err != nil {
			return nil, t.invalid(i, "%v", err)
		}

		snap := dto.MarketSnapshot{Timestamp: ts, Prices: make(map[string]float64, len(venues))}
		for _, col := range venues {
			price, ok, err := t.float(i, col)
			if err != nil {
				return nil, err
			}
			if ok {
				snap.Prices[t.header[col]] = price
			}
		}
		if snap.Volume, _, err = t.float(i, volCol); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}

	r.log.DebugContext(ctx, "Loaded market snapshots",
		logger.StringField("path", path),
		logger.IntField("snapshots", len(snapshots)),
		logger.IntField("venues", len(venues)),
	)
	return snapshots, nil
}
