// Package dto defines data transfer objects for the Alpha Vantage API responses.
package dto

// Notice carries the keys Alpha Vantage uses instead of data when a call is
// throttled or rejected.
type Notice struct {
	Note         string `json:"Note,omitempty"`
	Information  string `json:"Information,omitempty"`
	ErrorMessage string `json:"Error Message,omitempty"`
}

// Message returns the first non-empty notice, or "" when the response carries data.
func (n Notice) Message() string {
	switch {
	case n.ErrorMessage != "":
		return n.ErrorMessage
	case n.Note != "":
		return n.Note
	default:
		return n.Information
	}
}

// DailyBar is one day of TIME_SERIES_DAILY.
type DailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// TimeSeriesDailyResponse represents the JSON response of function=TIME_SERIES_DAILY.
type TimeSeriesDailyResponse struct {
	Notice
	MetaData map[string]string  `json:"Meta Data"`
	Series   map[string]DailyBar `json:"Time Series (Daily)"` // keyed by YYYY-MM-DD
}

// SymbolMatch is one entry of SYMBOL_SEARCH bestMatches.
type SymbolMatch struct {
	Symbol      string `json:"1. symbol"`
	Name        string `json:"2. name"`
	Type        string `json:"3. type"`
	Region      string `json:"4. region"`
	MarketOpen  string `json:"5. marketOpen"`
	MarketClose string `json:"6. marketClose"`
	Timezone    string `json:"7. timezone"`
	Currency    string `json:"8. currency"`
	MatchScore  string `json:"9. matchScore"`
}

// SymbolSearchResponse represents the JSON response of function=SYMBOL_SEARCH.
type SymbolSearchResponse struct {
	Notice
	BestMatches []SymbolMatch `json:"bestMatches"`
}
