// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	quotes "stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/symbols/domain/entity"
)

const (
	// DefaultListLimit is the number of symbols returned by List when no limit is given.
	DefaultListLimit = 20
	// MaxListLimit caps the default list size.
	MaxListLimit = 100
)

var (
	// ErrUnsupportedMarket is returned when no source is registered for a market.
	ErrUnsupportedMarket = errors.New("unsupported market")
	// ErrEmptyQuery is returned when Search is called with a blank query.
	ErrEmptyQuery = errors.New("search query is required")
)

// SymbolSource looks up listed securities on one market.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolSource interface {
	Search(ctx context.Context, query string) []quotes.QuoteRecord
	List(ctx context.Context, n int) []quotes.QuoteRecord
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	sources map[quotes.Market]SymbolSource
}

// NewSymbolUsecase creates a new SymbolUsecase with one source per market.
func NewSymbolUsecase(sources map[quotes.Market]SymbolSource) *SymbolUsecase {
	return &SymbolUsecase{sources: sources}
}

func (u *SymbolUsecase) source(market quotes.Market) (SymbolSource, error) {
	s, ok := u.sources[market]
	if !ok || s == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMarket, market)
	}
	return s, nil
}

// List returns up to limit symbols from the market's default list.
// Markets without a list endpoint return an empty slice.
func (u *SymbolUsecase) List(ctx context.Context, market quotes.Market, limit int) ([]entity.Symbol, error) {
	s, err := u.source(market)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return toSymbols(s.List(ctx, limit)), nil
}

// Search returns symbols whose name (or code, depending on the provider) matches query.
func (u *SymbolUsecase) Search(ctx context.Context, market quotes.Market, query string) ([]entity.Symbol, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	s, err := u.source(market)
	if err != nil {
		return nil, err
	}
	return toSymbols(s.Search(ctx, query)), nil
}

func toSymbols(recs []quotes.QuoteRecord) []entity.Symbol {
	out := make([]entity.Symbol, 0, len(recs))
	for _, r := range recs {
		out = append(out, entity.FromQuote(r))
	}
	return out
}
