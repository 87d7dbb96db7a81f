// Package entity defines the domain models for the symbols feature.
package entity

import quotes "stock_dashboard/internal/feature/quotes/domain/entity"

// Symbol is a listed security found by search or the default list,
// with the latest quote the provider returned alongside it.
type Symbol struct {
	Code       string
	Name       string
	Market     quotes.Market
	Price      string // latest close; "0" when the provider has no price
	ChangeRate string
	Date       string // YYYYMMDD of the quote
}

// FromQuote builds a Symbol from the record a provider returned for it.
func FromQuote(r quotes.QuoteRecord) Symbol {
	return Symbol{
		Code:       r.Code,
		Name:       r.Name,
		Market:     r.Market,
		Price:      r.Close,
		ChangeRate: r.ChangeRate,
		Date:       r.Date,
	}
}
