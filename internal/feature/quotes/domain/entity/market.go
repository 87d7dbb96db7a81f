// Package entity defines the domain models for the quotes feature.
package entity

import (
	"errors"
	"strings"
)

// Market identifies the upstream data provider a symbol is quoted on.
type Market string

const (
	// MarketKR is the Korean exchange market served by the public data portal.
	MarketKR Market = "KR"
	// MarketUS is the U.S. market served by the global quote provider.
	MarketUS Market = "US"
)

// ErrUnknownMarket is returned by ParseMarket for values other than KR or US.
var ErrUnknownMarket = errors.New("unknown market")

// ParseMarket converts a case-insensitive market string to a Market.
func ParseMarket(s string) (Market, error) {
	switch Market(strings.ToUpper(strings.TrimSpace(s))) {
	case MarketKR:
		return MarketKR, nil
	case MarketUS:
		return MarketUS, nil
	}
	return "", ErrUnknownMarket
}

// Currency returns the ISO 4217 code prices on this market are quoted in.
func (m Market) Currency() string {
	if m == MarketUS {
		return "USD"
	}
	return "KRW"
}

// Markets lists every supported market in display order.
func Markets() []Market {
	return []Market{MarketKR, MarketUS}
}
