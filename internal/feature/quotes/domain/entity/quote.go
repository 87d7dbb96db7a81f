package entity

// QuoteRecord is one symbol's trading data for one date.
// Provider values are kept as decimal strings; they are parsed only when a
// projection needs numbers.
type QuoteRecord struct {
	Date       string `json:"date"`       // YYYYMMDD, fixed width so it sorts as a string
	Code       string `json:"code"`       // short symbol code (e.g. "005930", "AAPL")
	Name       string `json:"name"`       // display name; falls back to Code when unknown
	Market     Market `json:"market"`     // market the record was fetched from
	Close      string `json:"close"`      // closing price
	Change     string `json:"change"`     // absolute change vs. prior day
	ChangeRate string `json:"changeRate"` // percent change vs. prior day
	Open       string `json:"open"`
	High       string `json:"high"`
	Low        string `json:"low"`
	Volume     string `json:"volume"`
}

// TrackedSymbol is a symbol the user follows, paired with its display name.
type TrackedSymbol struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
