package usecase

import "errors"

var (
	// ErrUnsupportedMarket is returned when no MarketRepository is registered for a market.
	ErrUnsupportedMarket = errors.New("unsupported market")
	// ErrEmptyCode is returned when a series is requested without a symbol code.
	ErrEmptyCode = errors.New("symbol code is required")
)
