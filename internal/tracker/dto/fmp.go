package dto

import (
	"time"
)

// DailyQuote is one symbol's end-of-day movement, provider-agnostic.
type DailyQuote struct {
	Symbol         string
	Date           time.Time
	Price          float64
	PriceChange    float64
	PriceChangePct float64
	Volume         int64
}

// FMPConstituent is one row of the /sp500_constituent response.
type FMPConstituent struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Sector    string `json:"sector"`
	SubSector string `json:"subSector"`
}

// FMPHistoricalResponse is the /historical-price-full/{symbol} response.
// Entries come newest first.
type FMPHistoricalResponse struct {
	Symbol     string        `json:"symbol"`
	Historical []FMPDailyBar `json:"historical"`
}

// FMPDailyBar is a single end-of-day bar.
type FMPDailyBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// FMPProfile is one row of the /profile/{symbol} response.
type FMPProfile struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"companyName"`
	Exchange    string `json:"exchangeShortName"`
	Industry    string `json:"industry"`
}
