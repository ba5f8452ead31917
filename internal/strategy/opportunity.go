package strategy

import (
	"sort"
	"strings"
	"time"

	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/apperror"
)

type OpportunityType string

const (
	OpportunityExpress       OpportunityType = "express"
	OpportunityRegular       OpportunityType = "regular"
	OpportunityKucoinExpress OpportunityType = "kucoin_express"
)

// Quote is the price pair an opportunity trades on one snapshot.
type Quote struct {
	BuyVenue  string
	SellVenue string
	BuyPrice  float64
	SellPrice float64
}

// Opportunity decides which venue pair a backtest models.
type Opportunity interface {
	Quote(snapshot dto.MarketSnapshot) (Quote, error)
	// FeeVenue names the venue whose fee schedule applies.
	FeeVenue() string
	GetType() OpportunityType
}

type venuePair struct {
	kind      OpportunityType
	buyVenue  string
	sellVenue string
}

func (p venuePair) Quote(snapshot dto.MarketSnapshot) (Quote, error) {
	buy, ok := snapshot.Price(p.buyVenue)
	if !ok {
		return Quote{}, apperror.InvalidInput("strategy.Quote", "snapshot at %s has no %s price", snapshot.Timestamp.Format(time.RFC3339), p.buyVenue)
	}
	sell, ok := snapshot.Price(p.sellVenue)
	if !ok {
		return Quote{}, apperror.InvalidInput("strategy.Quote", "snapshot at %s has no %s price", snapshot.Timestamp.Format(time.RFC3339), p.sellVenue)
	}
	return Quote{BuyVenue: p.buyVenue, SellVenue: p.sellVenue, BuyPrice: buy, SellPrice: sell}, nil
}

func (p venuePair) FeeVenue() string {
	return p.buyVenue
}

func (p venuePair) GetType() OpportunityType {
	return p.kind
}

var opportunities = map[OpportunityType]Opportunity{
	OpportunityExpress:       venuePair{kind: OpportunityExpress, buyVenue: dto.VenueZebpay, sellVenue: dto.VenueP2PExpress},
	OpportunityRegular:       venuePair{kind: OpportunityRegular, buyVenue: dto.VenueZebpay, sellVenue: dto.VenueP2PRegular},
	OpportunityKucoinExpress: venuePair{kind: OpportunityKucoinExpress, buyVenue: dto.VenueKucoin, sellVenue: dto.VenueP2PExpress},
}

// Lookup returns the opportunity registered under name.
func Lookup(name string) (Opportunity, error) {
	o, ok := opportunities[OpportunityType(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return nil, apperror.InvalidInput("strategy.Lookup", "unknown opportunity %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return o, nil
}

// Names lists the registered opportunities in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(opportunities))
	for k := range opportunities {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}
