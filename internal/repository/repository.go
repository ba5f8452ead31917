package repository

import (
	"golang-p2p-risk/pkg/logger"
)

// Repository groups the file-backed loaders the CLI reads its inputs with.
type Repository struct {
	SnapshotRepo SnapshotRepository
	TradeRepo    TradeRepository
	ReturnsRepo  ReturnsRepository
}

func NewRepository(log *logger.Logger) *Repository {
	return &Repository{
		SnapshotRepo: NewSnapshotRepository(log),
		TradeRepo:    NewTradeRepository(log),
		ReturnsRepo:  NewReturnsRepository(log),
	}
}
